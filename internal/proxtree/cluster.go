package proxtree

import (
	"fmt"
	"math"
)

// CoincidentGroups partitions the tree's entries into groups of 2 or
// more that lie within tolerance of a shared seed entry. Entries with no
// neighbour inside tolerance appear in no group.
//
// This is a single-hop greedy partition, not a transitive
// connected-components merge: with A near B and B near C but A far from
// C, group membership depends on which entry seeds first. Seeds are
// taken from the end of the build snapshot, so results are deterministic
// for a given input order.
func (t *Tree[T]) CoincidentGroups(tolerance float64) ([][]T, error) {
	if math.IsNaN(tolerance) || tolerance <= 0 {
		return nil, fmt.Errorf("%w: clustering tolerance must be > 0, got %v", ErrInvalidArgument, tolerance)
	}

	// consumed marks entries already assigned to a group; query results
	// are filtered against it rather than mutating the tree.
	consumed := make([]bool, len(t.entries))
	var groups [][]T

	for seed := len(t.entries) - 1; seed >= 0; seed-- {
		if consumed[seed] {
			continue
		}
		seedPt := t.entryPoint(t.entries[seed])
		matches := t.closeToIndices(seedPt, tolerance)

		group := make([]int32, 0, len(matches))
		seedIncluded := false
		for _, i := range matches {
			if consumed[i] {
				continue
			}
			group = append(group, i)
			if int(i) == seed {
				seedIncluded = true
			}
		}
		if !seedIncluded {
			group = append(group, int32(seed))
		}

		for _, i := range group {
			consumed[i] = true
		}
		if len(group) < 2 {
			continue
		}
		out := make([]T, len(group))
		for j, i := range group {
			out[j] = t.entries[i]
		}
		groups = append(groups, out)
	}
	return groups, nil
}
