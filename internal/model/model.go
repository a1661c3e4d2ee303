// Package model holds the structural model graph: nodes, members, and
// the model that owns them. The proximity index borrows node handles
// from here; the model stays the authoritative owner of entity state.
package model

import (
	"fmt"

	"github.com/gantry-data/strukt/internal/geom"
)

// Node is a structural node: a numbered position in world coordinates.
type Node struct {
	ID       int64
	Position geom.Point
}

// Member is a linear element spanning two nodes.
type Member struct {
	ID      int64
	StartID int64
	EndID   int64
	Section string
}

// Model is an ordered collection of nodes and members, typically read
// from an import file and cleaned up before further processing.
type Model struct {
	Name    string
	Nodes   []*Node
	Members []*Member

	nodesByID map[int64]*Node
}

// New creates an empty model.
func New(name string) *Model {
	return &Model{
		Name:      name,
		nodesByID: make(map[int64]*Node),
	}
}

// AddNode appends a node. Duplicate IDs are rejected: imported files
// sometimes repeat positions but never node numbers.
func (m *Model) AddNode(n *Node) error {
	if _, ok := m.nodesByID[n.ID]; ok {
		return fmt.Errorf("model %q: duplicate node ID %d", m.Name, n.ID)
	}
	m.Nodes = append(m.Nodes, n)
	m.nodesByID[n.ID] = n
	return nil
}

// AddMember appends a member. Both end nodes must already exist.
func (m *Model) AddMember(mem *Member) error {
	if _, ok := m.nodesByID[mem.StartID]; !ok {
		return fmt.Errorf("model %q: member %d references missing node %d", m.Name, mem.ID, mem.StartID)
	}
	if _, ok := m.nodesByID[mem.EndID]; !ok {
		return fmt.Errorf("model %q: member %d references missing node %d", m.Name, mem.ID, mem.EndID)
	}
	m.Members = append(m.Members, mem)
	return nil
}

// NodeByID returns the node with the given ID, or nil.
func (m *Model) NodeByID(id int64) *Node {
	return m.nodesByID[id]
}

// RemoveNodes drops the nodes whose IDs are in the set. Member
// connectivity is the caller's responsibility (see internal/cleanup).
func (m *Model) RemoveNodes(ids map[int64]bool) {
	kept := m.Nodes[:0]
	for _, n := range m.Nodes {
		if ids[n.ID] {
			delete(m.nodesByID, n.ID)
			continue
		}
		kept = append(kept, n)
	}
	m.Nodes = kept
}
