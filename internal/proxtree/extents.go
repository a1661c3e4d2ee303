package proxtree

import (
	"errors"
	"fmt"

	"github.com/gantry-data/strukt/internal/geom"
)

// Extents is the capability set the tree uses to see an entry type.
// All methods must be pure and total; returning NaN for an entry causes
// the build to reject it (see New).
type Extents[T any] interface {
	// MinCoord returns the entry's minimum extent along the axis.
	MinCoord(axis geom.Axis, entry T) float64

	// MaxCoord returns the entry's maximum extent along the axis.
	// For point-like entries MinCoord and MaxCoord are equal.
	MaxCoord(axis geom.Axis, entry T) float64

	// DistanceSquared returns the squared Euclidean distance from an
	// arbitrary point to the entry's canonical position.
	DistanceSquared(p geom.Point, entry T) float64

	// MinDistanceSquared returns the squared Euclidean distance between
	// two entries' canonical positions.
	MinDistanceSquared(a, b T) float64

	// CoordinateOnAxis returns the entry's representative coordinate on
	// the axis, used for split-side assignment during subdivision.
	CoordinateOnAxis(axis geom.Axis, entry T) float64
}

// ErrInvalidArgument marks caller errors: negative query radius,
// non-positive clustering tolerance, or a malformed Config. Check with
// errors.Is.
var ErrInvalidArgument = errors.New("proxtree: invalid argument")

// ValidationError reports an entry whose Extents produced a NaN
// coordinate during the build. Index is the entry's position in the
// slice passed to New.
type ValidationError struct {
	Index int
	Axis  geom.Axis
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("proxtree: entry %d has NaN coordinate on axis %s", e.Index, e.Axis)
}
