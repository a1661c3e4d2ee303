// Package cleanup deduplicates near-coincident structural nodes after a
// model import. Imported models frequently carry nodes at near-identical
// but not bit-identical positions; this pass merges each coincident
// group into its lowest-numbered node and rewrites member connectivity.
package cleanup

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/gantry-data/strukt/internal/model"
	"github.com/gantry-data/strukt/internal/monitoring"
	"github.com/gantry-data/strukt/internal/proxtree"
	"github.com/gantry-data/strukt/internal/timeutil"
)

// Merge records one duplicate node folded into a survivor.
type Merge struct {
	SurvivorID int64   `json:"survivor_id"`
	MergedID   int64   `json:"merged_id"`
	SurvivorX  float64 `json:"survivor_x"`
	SurvivorY  float64 `json:"survivor_y"`
	SurvivorZ  float64 `json:"survivor_z"`
	OffsetX    float64 `json:"offset_x"` // merged minus survivor
	OffsetY    float64 `json:"offset_y"`
	OffsetZ    float64 `json:"offset_z"`
	Distance   float64 `json:"distance"` // meters
}

// Report summarises a merge pass over one model.
type Report struct {
	RunID         string    `json:"run_id"`
	ModelName     string    `json:"model_name"`
	Tolerance     float64   `json:"tolerance"` // meters
	NodesBefore   int       `json:"nodes_before"`
	NodesAfter    int       `json:"nodes_after"`
	MembersBefore int       `json:"members_before"`
	MembersAfter  int       `json:"members_after"`
	Merges        []Merge   `json:"merges"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// MergeCoincidentNodes merges every group of nodes within tolerance of a
// shared seed into the group's lowest-ID node, rewrites member ends to
// the survivors, and drops members collapsed to zero length by the
// rewrite. The model is modified in place.
func MergeCoincidentNodes(m *model.Model, tolerance float64, clock timeutil.Clock) (*Report, error) {
	return MergeCoincidentNodesWithConfig(m, tolerance, proxtree.DefaultConfig(), clock)
}

// MergeCoincidentNodesWithConfig is MergeCoincidentNodes with explicit
// spatial index parameters, for callers with a tuning config.
func MergeCoincidentNodesWithConfig(m *model.Model, tolerance float64, cfg proxtree.Config, clock timeutil.Clock) (*Report, error) {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	report := &Report{
		RunID:         uuid.NewString(),
		ModelName:     m.Name,
		Tolerance:     tolerance,
		NodesBefore:   len(m.Nodes),
		MembersBefore: len(m.Members),
		StartedAt:     clock.Now(),
	}

	ix, err := model.NewNodeIndex(m.Nodes, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to index model nodes: %w", err)
	}
	groups, err := ix.CoincidentGroups(tolerance)
	if err != nil {
		return nil, err
	}

	// survivors maps each merged-away node ID to its replacement.
	survivors := make(map[int64]int64)
	removed := make(map[int64]bool)
	for _, group := range groups {
		survivor := group[0]
		for _, n := range group[1:] {
			if n.ID < survivor.ID {
				survivor = n
			}
		}
		for _, n := range group {
			if n.ID == survivor.ID {
				continue
			}
			survivors[n.ID] = survivor.ID
			removed[n.ID] = true
			report.Merges = append(report.Merges, Merge{
				SurvivorID: survivor.ID,
				MergedID:   n.ID,
				SurvivorX:  survivor.Position.X,
				SurvivorY:  survivor.Position.Y,
				SurvivorZ:  survivor.Position.Z,
				OffsetX:    n.Position.X - survivor.Position.X,
				OffsetY:    n.Position.Y - survivor.Position.Y,
				OffsetZ:    n.Position.Z - survivor.Position.Z,
				Distance:   math.Sqrt(n.Position.DistanceSquared(survivor.Position)),
			})
		}
	}

	rewriteMembers(m, survivors)
	m.RemoveNodes(removed)

	report.NodesAfter = len(m.Nodes)
	report.MembersAfter = len(m.Members)
	report.FinishedAt = clock.Now()

	monitoring.Logf("cleanup run %s: model %q merged %d of %d nodes (tolerance %gm), %d members dropped",
		report.RunID, m.Name, len(report.Merges), report.NodesBefore,
		tolerance, report.MembersBefore-report.MembersAfter)
	return report, nil
}

// rewriteMembers redirects member ends to surviving nodes and drops
// members whose two ends collapse onto the same node.
func rewriteMembers(m *model.Model, survivors map[int64]int64) {
	kept := m.Members[:0]
	for _, mem := range m.Members {
		if s, ok := survivors[mem.StartID]; ok {
			mem.StartID = s
		}
		if s, ok := survivors[mem.EndID]; ok {
			mem.EndID = s
		}
		if mem.StartID == mem.EndID {
			continue
		}
		kept = append(kept, mem)
	}
	m.Members = kept
}
