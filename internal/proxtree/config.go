package proxtree

import (
	"fmt"
	"math"
)

// Defaults for Config fields left at their zero value where a zero value
// has no standalone meaning.
const (
	// DefaultLeafSplitCount is the leaf entry count above which a leaf
	// subdivides.
	DefaultLeafSplitCount = 8
	// DefaultMaxDivisions bounds subdivision depth.
	DefaultMaxDivisions = 24
	// DefaultMinCellSize is the smallest per-axis cell extent (meters)
	// below which subdivision stops.
	DefaultMinCellSize = 1e-3
)

// Config holds tree build parameters. MaxDivisions and MinCellSize are
// advisory performance controls: exceeding them leaves oversized leaves
// that are linearly scanned at query time, never an error.
type Config struct {
	Dimensions     int     // 2 or 3
	MaxDivisions   int     // hard cap on subdivision depth, >= 0
	MinCellSize    float64 // meters, > 0
	LeafSplitCount int     // leaf split threshold; <= 0 means DefaultLeafSplitCount
}

// DefaultConfig returns the configuration used by the model pipeline.
func DefaultConfig() Config {
	return Config{
		Dimensions:     3,
		MaxDivisions:   DefaultMaxDivisions,
		MinCellSize:    DefaultMinCellSize,
		LeafSplitCount: DefaultLeafSplitCount,
	}
}

// normalized applies defaults to fields whose zero value is not
// meaningful. MaxDivisions is left alone: zero is a valid setting that
// forces a single flat leaf.
func (c Config) normalized() Config {
	if c.LeafSplitCount <= 0 {
		c.LeafSplitCount = DefaultLeafSplitCount
	}
	return c
}

// Validate reports whether the configuration is usable for a build.
func (c Config) Validate() error {
	if c.Dimensions != 2 && c.Dimensions != 3 {
		return fmt.Errorf("%w: dimensions must be 2 or 3, got %d", ErrInvalidArgument, c.Dimensions)
	}
	if c.MaxDivisions < 0 {
		return fmt.Errorf("%w: max divisions must be >= 0, got %d", ErrInvalidArgument, c.MaxDivisions)
	}
	if math.IsNaN(c.MinCellSize) || c.MinCellSize <= 0 {
		return fmt.Errorf("%w: min cell size must be > 0, got %v", ErrInvalidArgument, c.MinCellSize)
	}
	return nil
}
