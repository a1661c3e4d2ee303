// Package monitoring provides the process-wide diagnostic logger.
package monitoring

import "log"

// Logf emits one diagnostic log line. It defaults to the standard
// library's log.Printf; SetLogger can redirect or silence it, which
// tests use to keep output quiet or capture lines.
var Logf = log.Printf

// SetLogger replaces Logf. A nil f installs a no-op logger.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		f = func(string, ...any) {}
	}
	Logf = f
}
