// Package units provides shared constants and validation for length units
package units

import "fmt"

// Unit constants
const (
	Meters      = "m"
	Millimeters = "mm"
	Centimeters = "cm"
	Feet        = "ft"
	Inches      = "in"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Meters, Millimeters, Centimeters, Feet, Inches}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, mm, cm, ft, in"
}

// ToMeters converts a length in the given units to meters.
// All model coordinates and tolerances are stored in meters.
func ToMeters(value float64, unit string) (float64, error) {
	switch unit {
	case Meters, "":
		return value, nil
	case Millimeters:
		return value / 1000.0, nil
	case Centimeters:
		return value / 100.0, nil
	case Feet:
		return value * 0.3048, nil
	case Inches:
		return value * 0.0254, nil
	default:
		return 0, fmt.Errorf("unknown length unit %q (valid: %s)", unit, GetValidUnitsString())
	}
}
