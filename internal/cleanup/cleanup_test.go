package cleanup

import (
	"errors"
	"testing"
	"time"

	"github.com/gantry-data/strukt/internal/geom"
	"github.com/gantry-data/strukt/internal/model"
	"github.com/gantry-data/strukt/internal/proxtree"
	"github.com/gantry-data/strukt/internal/timeutil"
)

func buildModel(t *testing.T, nodes []*model.Node, members []*model.Member) *model.Model {
	t.Helper()
	m := model.New("test-model")
	for _, n := range nodes {
		if err := m.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	for _, mem := range members {
		if err := m.AddMember(mem); err != nil {
			t.Fatalf("AddMember: %v", err)
		}
	}
	return m
}

func TestMergeCoincidentNodes_SurvivorIsLowestID(t *testing.T) {
	m := buildModel(t, []*model.Node{
		{ID: 1, Position: geom.Point{X: 0, Y: 0, Z: 0}},
		{ID: 7, Position: geom.Point{X: 0.002, Y: 0, Z: 0}},
		{ID: 3, Position: geom.Point{X: 12, Y: 0, Z: 0}},
	}, nil)

	report, err := MergeCoincidentNodes(m, 0.01, nil)
	if err != nil {
		t.Fatalf("MergeCoincidentNodes: %v", err)
	}

	if len(report.Merges) != 1 {
		t.Fatalf("expected 1 merge, got %d", len(report.Merges))
	}
	merge := report.Merges[0]
	if merge.SurvivorID != 1 || merge.MergedID != 7 {
		t.Errorf("expected node 7 merged into node 1, got %d into %d", merge.MergedID, merge.SurvivorID)
	}
	if m.NodeByID(7) != nil {
		t.Error("merged node 7 still present in model")
	}
	if m.NodeByID(1) == nil || m.NodeByID(3) == nil {
		t.Error("surviving nodes missing from model")
	}
	if report.NodesBefore != 3 || report.NodesAfter != 2 {
		t.Errorf("node counts = %d -> %d, want 3 -> 2", report.NodesBefore, report.NodesAfter)
	}
}

func TestMergeCoincidentNodes_RewritesMembers(t *testing.T) {
	m := buildModel(t, []*model.Node{
		{ID: 1, Position: geom.Point{X: 0, Y: 0, Z: 0}},
		{ID: 2, Position: geom.Point{X: 0.001, Y: 0, Z: 0}},
		{ID: 3, Position: geom.Point{X: 5, Y: 0, Z: 0}},
	}, []*model.Member{
		{ID: 100, StartID: 2, EndID: 3, Section: "IPE200"},
	})

	if _, err := MergeCoincidentNodes(m, 0.01, nil); err != nil {
		t.Fatalf("MergeCoincidentNodes: %v", err)
	}

	if len(m.Members) != 1 {
		t.Fatalf("expected member to survive, got %d members", len(m.Members))
	}
	if m.Members[0].StartID != 1 {
		t.Errorf("member start = %d, want rewritten to survivor 1", m.Members[0].StartID)
	}
	if m.Members[0].EndID != 3 {
		t.Errorf("member end = %d, want untouched 3", m.Members[0].EndID)
	}
}

func TestMergeCoincidentNodes_DropsCollapsedMembers(t *testing.T) {
	m := buildModel(t, []*model.Node{
		{ID: 1, Position: geom.Point{X: 0, Y: 0, Z: 0}},
		{ID: 2, Position: geom.Point{X: 0.001, Y: 0, Z: 0}},
	}, []*model.Member{
		{ID: 100, StartID: 1, EndID: 2},
	})

	report, err := MergeCoincidentNodes(m, 0.01, nil)
	if err != nil {
		t.Fatalf("MergeCoincidentNodes: %v", err)
	}

	if len(m.Members) != 0 {
		t.Errorf("expected collapsed member to be dropped, got %d members", len(m.Members))
	}
	if report.MembersBefore != 1 || report.MembersAfter != 0 {
		t.Errorf("member counts = %d -> %d, want 1 -> 0", report.MembersBefore, report.MembersAfter)
	}
}

func TestMergeCoincidentNodes_NoDuplicates(t *testing.T) {
	m := buildModel(t, []*model.Node{
		{ID: 1, Position: geom.Point{X: 0, Y: 0, Z: 0}},
		{ID: 2, Position: geom.Point{X: 10, Y: 0, Z: 0}},
	}, nil)

	report, err := MergeCoincidentNodes(m, 0.01, nil)
	if err != nil {
		t.Fatalf("MergeCoincidentNodes: %v", err)
	}
	if len(report.Merges) != 0 {
		t.Errorf("expected no merges, got %d", len(report.Merges))
	}
	if len(m.Nodes) != 2 {
		t.Errorf("expected both nodes kept, got %d", len(m.Nodes))
	}
}

func TestMergeCoincidentNodes_InvalidTolerance(t *testing.T) {
	m := buildModel(t, []*model.Node{{ID: 1}}, nil)

	_, err := MergeCoincidentNodes(m, 0, nil)
	if !errors.Is(err, proxtree.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero tolerance, got %v", err)
	}
}

func TestMergeCoincidentNodesWithConfig_FlatIndex(t *testing.T) {
	// MaxDivisions 0 forces a single flat leaf; merge results must match
	// the default index.
	nodes := []*model.Node{
		{ID: 1, Position: geom.Point{X: 0, Y: 0, Z: 0}},
		{ID: 4, Position: geom.Point{X: 0.002, Y: 0, Z: 0}},
		{ID: 9, Position: geom.Point{X: 3, Y: 4, Z: 0}},
	}
	m := buildModel(t, nodes, nil)

	cfg := proxtree.DefaultConfig()
	cfg.MaxDivisions = 0
	report, err := MergeCoincidentNodesWithConfig(m, 0.01, cfg, nil)
	if err != nil {
		t.Fatalf("MergeCoincidentNodesWithConfig: %v", err)
	}
	if len(report.Merges) != 1 {
		t.Fatalf("expected 1 merge, got %d", len(report.Merges))
	}
	if report.Merges[0].SurvivorID != 1 || report.Merges[0].MergedID != 4 {
		t.Errorf("expected node 4 merged into node 1, got %d into %d",
			report.Merges[0].MergedID, report.Merges[0].SurvivorID)
	}
}

func TestMergeCoincidentNodes_UsesClock(t *testing.T) {
	start := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	clock := timeutil.NewFakeClock(start)

	m := buildModel(t, []*model.Node{
		{ID: 1, Position: geom.Point{X: 0}},
		{ID: 2, Position: geom.Point{X: 0.001}},
	}, nil)

	report, err := MergeCoincidentNodes(m, 0.01, clock)
	if err != nil {
		t.Fatalf("MergeCoincidentNodes: %v", err)
	}
	if !report.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", report.StartedAt, start)
	}
	if report.RunID == "" {
		t.Error("expected a run ID")
	}
}
