package model

import (
	"github.com/gantry-data/strukt/internal/geom"
	"github.com/gantry-data/strukt/internal/proxtree"
)

// nodeExtents binds structural nodes to the proximity tree. Nodes are
// point-like: min and max extents both equal the node position.
type nodeExtents struct{}

func (nodeExtents) MinCoord(a geom.Axis, n *Node) float64 { return n.Position.Coord(a) }
func (nodeExtents) MaxCoord(a geom.Axis, n *Node) float64 { return n.Position.Coord(a) }
func (nodeExtents) DistanceSquared(p geom.Point, n *Node) float64 {
	return p.DistanceSquared(n.Position)
}
func (nodeExtents) MinDistanceSquared(a, b *Node) float64 {
	return a.Position.DistanceSquared(b.Position)
}
func (nodeExtents) CoordinateOnAxis(a geom.Axis, n *Node) float64 {
	return n.Position.Coord(a)
}

// NodeIndex is the proximity tree bound to structural nodes. It is
// built from a snapshot of a model's nodes; rebuild after the model
// changes.
type NodeIndex struct {
	tree *proxtree.Tree[*Node]
}

// NewNodeIndex builds an index over the given nodes.
func NewNodeIndex(nodes []*Node, cfg proxtree.Config) (*NodeIndex, error) {
	snapshot := make([]*Node, len(nodes))
	copy(snapshot, nodes)
	tree, err := proxtree.New(snapshot, nodeExtents{}, cfg)
	if err != nil {
		return nil, err
	}
	return &NodeIndex{tree: tree}, nil
}

// CloseTo returns every node within radius of p.
func (ix *NodeIndex) CloseTo(p geom.Point, radius float64) ([]*Node, error) {
	return ix.tree.CloseTo(p, radius)
}

// CoincidentGroups returns groups of 2 or more nodes within tolerance of
// a shared seed node. Nodes without a near neighbour appear in no group.
func (ix *NodeIndex) CoincidentGroups(tolerance float64) ([][]*Node, error) {
	return ix.tree.CoincidentGroups(tolerance)
}
