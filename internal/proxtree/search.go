package proxtree

import (
	"fmt"
	"math"

	"github.com/gantry-data/strukt/internal/geom"
)

// CloseTo returns every entry within maxDistance of p. A radius of
// exactly 0 matches only bit-exact positions. Return order is
// unspecified; callers must not depend on it.
func (t *Tree[T]) CloseTo(p geom.Point, maxDistance float64) ([]T, error) {
	if math.IsNaN(maxDistance) || maxDistance < 0 {
		return nil, fmt.Errorf("%w: close-to radius must be >= 0, got %v", ErrInvalidArgument, maxDistance)
	}
	indices := t.closeToIndices(p, maxDistance)
	if len(indices) == 0 {
		return nil, nil
	}
	out := make([]T, len(indices))
	for i, idx := range indices {
		out[i] = t.entries[idx]
	}
	return out, nil
}

// closeToIndices is the handle-level query shared by CloseTo and the
// clustering pass. Branches are pruned by the expanded bounding-box
// test; leaf candidates are confirmed by exact squared distance.
func (t *Tree[T]) closeToIndices(p geom.Point, r float64) []int32 {
	if t.root == nil {
		return nil
	}
	var out []int32
	t.collect(t.root, p, r, r*r, &out)
	return out
}

func (t *Tree[T]) collect(n *node, p geom.Point, r, r2 float64, out *[]int32) {
	if n.isLeaf() {
		for _, i := range n.entries {
			if t.ext.DistanceSquared(p, t.entries[i]) <= r2 {
				*out = append(*out, i)
			}
		}
		return
	}
	for _, child := range n.children {
		if child.bounds.containsExpanded(p, r, t.cfg.Dimensions) {
			t.collect(child, p, r, r2, out)
		}
	}
}
