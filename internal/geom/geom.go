// Package geom provides the small set of geometric primitives shared by
// the spatial index and the model pipeline: Cartesian points, axis
// identifiers, and squared-distance helpers.
package geom

import (
	"fmt"
	"math"
)

// Axis identifies one of the Cartesian axes. Axis ordering (X before Y
// before Z) is the tie-break order used when choosing a subdivision axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis name for log and error messages.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Point is a position in world coordinates (meters). For 2D uses, Z is
// carried but ignored by any consumer configured for two dimensions.
type Point struct {
	X, Y, Z float64
}

// Coord returns the point's coordinate along the given axis.
func (p Point) Coord(a Axis) float64 {
	switch a {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	default:
		return p.Z
	}
}

// DistanceSquared returns the squared Euclidean distance between p and q.
// Squared distances avoid the sqrt on hot comparison paths.
func (p Point) DistanceSquared(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return dx*dx + dy*dy + dz*dz
}

// HasNaN reports whether any coordinate of p is NaN.
func (p Point) HasNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z)
}
