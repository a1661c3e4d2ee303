package proxtree

import (
	"fmt"
	"math"

	"github.com/gantry-data/strukt/internal/geom"
)

// node is either a leaf (entries != nil, holds handles into the tree's
// entry snapshot) or a branch (children != nil). Branches own their
// children outright; there is no sharing between subtrees.
type node struct {
	bounds   box
	entries  []int32
	children []*node
}

func (n *node) isLeaf() bool { return n.children == nil }

// Tree is a proximity tree over entries of type T. Build once with New,
// query any number of times. Adding or removing entries after the build
// is unsupported; rebuild from the updated collection instead.
type Tree[T any] struct {
	cfg     Config
	ext     Extents[T]
	entries []T
	root    *node // nil for an empty tree
}

// New bulk-builds a tree over a snapshot of entries. The slice is
// retained by the tree and must not be mutated while the tree is in use.
// Any entry whose Extents report a NaN coordinate fails the build with a
// *ValidationError; no partial tree is returned.
func New[T any](entries []T, ext Extents[T], cfg Config) (*Tree[T], error) {
	if ext == nil {
		return nil, fmt.Errorf("%w: nil extents", ErrInvalidArgument)
	}
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateEntries(entries, ext, cfg.Dimensions); err != nil {
		return nil, err
	}

	t := &Tree[T]{cfg: cfg, ext: ext, entries: entries}
	if len(entries) == 0 {
		return t, nil
	}

	indices := make([]int32, len(entries))
	for i := range indices {
		indices[i] = int32(i)
	}
	t.root = &node{
		bounds:  entryBox(ext, entries, indices, cfg.Dimensions),
		entries: indices,
	}
	t.subdivide(t.root, 0)
	return t, nil
}

func validateEntries[T any](entries []T, ext Extents[T], dims int) error {
	for i, e := range entries {
		for a := geom.AxisX; int(a) < dims; a++ {
			if math.IsNaN(ext.MinCoord(a, e)) || math.IsNaN(ext.MaxCoord(a, e)) ||
				math.IsNaN(ext.CoordinateOnAxis(a, e)) {
				return &ValidationError{Index: i, Axis: a}
			}
		}
	}
	return nil
}

// subdivide recursively splits a leaf until it is small enough, deep
// enough, or cannot be partitioned. Termination is guaranteed by the
// depth cap, the cell size floor, and the degenerate-partition guard: a
// fully coincident entry set stays a single flat leaf.
func (t *Tree[T]) subdivide(n *node, depth int) {
	if len(n.entries) <= t.cfg.LeafSplitCount {
		return
	}
	if depth >= t.cfg.MaxDivisions {
		return
	}

	// Split along the axis of greatest extent; axis order breaks ties so
	// equal boxes always split the same way.
	axis := geom.AxisX
	largest := n.bounds.extent(geom.AxisX)
	for a := geom.AxisY; int(a) < t.cfg.Dimensions; a++ {
		if e := n.bounds.extent(a); e > largest {
			largest = e
			axis = a
		}
	}
	if largest <= t.cfg.MinCellSize {
		return
	}

	// Midpoint split gives a spatial grid rather than a count-balanced
	// tree; query locality matters more than balance here.
	mid := (n.bounds.min[axis] + n.bounds.max[axis]) / 2
	var lo, hi []int32
	for _, i := range n.entries {
		if t.ext.CoordinateOnAxis(axis, t.entries[i]) <= mid {
			lo = append(lo, i)
		} else {
			hi = append(hi, i)
		}
	}
	if len(lo) == 0 || len(hi) == 0 {
		// Degenerate partition: every entry landed on one side. Keep the
		// leaf as-is instead of recursing forever on coincident entries.
		return
	}

	left := &node{bounds: entryBox(t.ext, t.entries, lo, t.cfg.Dimensions), entries: lo}
	right := &node{bounds: entryBox(t.ext, t.entries, hi, t.cfg.Dimensions), entries: hi}
	n.entries = nil
	n.children = []*node{left, right}
	t.subdivide(left, depth+1)
	t.subdivide(right, depth+1)
}

// Len returns the number of entries the tree was built over.
func (t *Tree[T]) Len() int { return len(t.entries) }

// entryPoint derives an entry's representative position from its
// per-axis coordinates. Unconfigured axes stay zero.
func (t *Tree[T]) entryPoint(e T) geom.Point {
	var p geom.Point
	p.X = t.ext.CoordinateOnAxis(geom.AxisX, e)
	p.Y = t.ext.CoordinateOnAxis(geom.AxisY, e)
	if t.cfg.Dimensions == 3 {
		p.Z = t.ext.CoordinateOnAxis(geom.AxisZ, e)
	}
	return p
}
