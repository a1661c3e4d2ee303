package proxtree

import "github.com/gantry-data/strukt/internal/geom"

// box is an axis-aligned bounding interval per dimension. Only the first
// `dims` axes are meaningful; the tree never reads beyond them.
type box struct {
	min, max [3]float64
}

// extent returns the box's size along the axis.
func (b box) extent(a geom.Axis) float64 {
	return b.max[a] - b.min[a]
}

// containsExpanded reports whether p lies inside the box grown by r on
// every axis. This is the conservative branch-pruning test: it may admit
// boxes with no qualifying entry, which the leaf-level exact distance
// check then removes.
func (b box) containsExpanded(p geom.Point, r float64, dims int) bool {
	for a := geom.AxisX; int(a) < dims; a++ {
		c := p.Coord(a)
		if c < b.min[a]-r || c > b.max[a]+r {
			return false
		}
	}
	return true
}

// entryBox returns the exact union of the extents of the given entries.
// Caller guarantees at least one entry.
func entryBox[T any](ext Extents[T], entries []T, indices []int32, dims int) box {
	var b box
	for a := 0; a < dims; a++ {
		e := entries[indices[0]]
		b.min[a] = ext.MinCoord(geom.Axis(a), e)
		b.max[a] = ext.MaxCoord(geom.Axis(a), e)
	}
	for _, i := range indices[1:] {
		e := entries[i]
		for a := 0; a < dims; a++ {
			if lo := ext.MinCoord(geom.Axis(a), e); lo < b.min[a] {
				b.min[a] = lo
			}
			if hi := ext.MaxCoord(geom.Axis(a), e); hi > b.max[a] {
				b.max[a] = hi
			}
		}
	}
	return b
}
