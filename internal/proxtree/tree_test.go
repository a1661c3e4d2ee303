package proxtree

import (
	"errors"
	"math"
	"testing"

	"github.com/gantry-data/strukt/internal/geom"
)

// pointExtents binds bare geom.Point entries to the tree for testing.
// Points are point-like: min and max extents equal the position.
type pointExtents struct{}

func (pointExtents) MinCoord(a geom.Axis, p geom.Point) float64 { return p.Coord(a) }
func (pointExtents) MaxCoord(a geom.Axis, p geom.Point) float64 { return p.Coord(a) }
func (pointExtents) DistanceSquared(q geom.Point, p geom.Point) float64 {
	return q.DistanceSquared(p)
}
func (pointExtents) MinDistanceSquared(a, b geom.Point) float64 { return a.DistanceSquared(b) }
func (pointExtents) CoordinateOnAxis(a geom.Axis, p geom.Point) float64 {
	return p.Coord(a)
}

func testConfig() Config {
	return Config{Dimensions: 3, MaxDivisions: 24, MinCellSize: 1e-6, LeafSplitCount: 2}
}

func mustBuild(t *testing.T, points []geom.Point, cfg Config) *Tree[geom.Point] {
	t.Helper()
	tree, err := New(points, pointExtents{}, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tree
}

func TestNew_EmptyInput(t *testing.T) {
	tree := mustBuild(t, nil, testConfig())

	got, err := tree.CloseTo(geom.Point{X: 1, Y: 2, Z: 3}, 100)
	if err != nil {
		t.Fatalf("CloseTo: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result from empty tree, got %d entries", len(got))
	}

	groups, err := tree.CoincidentGroups(0.01)
	if err != nil {
		t.Fatalf("CoincidentGroups: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected no groups from empty tree, got %d", len(groups))
	}
}

func TestNew_RejectsNaNCoordinate(t *testing.T) {
	points := []geom.Point{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: math.NaN(), Z: 0},
	}

	_, err := New(points, pointExtents{}, testConfig())
	if err == nil {
		t.Fatal("expected validation error for NaN coordinate")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Index != 1 {
		t.Errorf("expected offending entry index 1, got %d", verr.Index)
	}
	if verr.Axis != geom.AxisY {
		t.Errorf("expected offending axis Y, got %s", verr.Axis)
	}
}

func TestNew_ConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"bad dimensions", Config{Dimensions: 4, MaxDivisions: 8, MinCellSize: 0.001}},
		{"negative max divisions", Config{Dimensions: 3, MaxDivisions: -1, MinCellSize: 0.001}},
		{"zero min cell size", Config{Dimensions: 3, MaxDivisions: 8, MinCellSize: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New([]geom.Point{{X: 1}}, pointExtents{}, tc.cfg)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestNew_NilExtents(t *testing.T) {
	_, err := New[geom.Point]([]geom.Point{{X: 1}}, nil, testConfig())
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for nil extents, got %v", err)
	}
}

// Every entry must be reachable from exactly one leaf: a zero-radius
// query at each entry's own position finds it.
func TestBuild_Completeness(t *testing.T) {
	points := gridPoints(6, 6, 4, 1.7) // 144 points, forces several splits
	tree := mustBuild(t, points, testConfig())

	for i, p := range points {
		got, err := tree.CloseTo(p, 0)
		if err != nil {
			t.Fatalf("CloseTo: %v", err)
		}
		found := false
		for _, g := range got {
			if g == p {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("entry %d at %+v missing from zero-radius self query", i, p)
		}
	}
}

// A fully coincident entry set must resolve to a single flat leaf, not
// an unbounded spiral of one-entry splits.
func TestBuild_TerminatesOnCoincidentEntries(t *testing.T) {
	points := make([]geom.Point, 10000)
	for i := range points {
		points[i] = geom.Point{X: 4.2, Y: -1.0, Z: 9.9}
	}

	tree := mustBuild(t, points, testConfig())

	got, err := tree.CloseTo(geom.Point{X: 4.2, Y: -1.0, Z: 9.9}, 0)
	if err != nil {
		t.Fatalf("CloseTo: %v", err)
	}
	if len(got) != len(points) {
		t.Errorf("expected all %d coincident entries, got %d", len(points), len(got))
	}
	if tree.root == nil || !tree.root.isLeaf() {
		t.Error("expected coincident entries to stay in a single flat leaf")
	}
}

// MaxDivisions = 0 keeps the tree a single leaf; queries fall back to a
// full linear scan and must still be correct.
func TestBuild_ZeroMaxDivisionsIsFlatLeaf(t *testing.T) {
	points := gridPoints(5, 5, 1, 3.0)
	cfg := testConfig()
	cfg.MaxDivisions = 0
	tree := mustBuild(t, points, cfg)

	if tree.root == nil || !tree.root.isLeaf() {
		t.Fatal("expected a single flat leaf with MaxDivisions=0")
	}

	got, err := tree.CloseTo(points[7], 3.1)
	if err != nil {
		t.Fatalf("CloseTo: %v", err)
	}
	want := bruteForceCloseTo(points, points[7], 3.1)
	if len(got) != len(want) {
		t.Errorf("flat-leaf query returned %d entries, brute force says %d", len(got), len(want))
	}
}

func TestBuild_MinCellSizeStopsSubdivision(t *testing.T) {
	// All points inside a 0.5-unit cube; MinCellSize larger than the
	// whole extent means no split happens regardless of entry count.
	points := gridPoints(4, 4, 4, 0.1)
	cfg := testConfig()
	cfg.MinCellSize = 1.0
	tree := mustBuild(t, points, cfg)

	if tree.root == nil || !tree.root.isLeaf() {
		t.Error("expected subdivision to stop at MinCellSize")
	}
}

func TestBuild_TwoDimensional(t *testing.T) {
	// Z coordinates vary wildly but a 2D tree must ignore them.
	points := []geom.Point{
		{X: 0, Y: 0, Z: 500},
		{X: 0.004, Y: 0, Z: -900},
		{X: 20, Y: 20, Z: 0},
	}
	cfg := Config{Dimensions: 2, MaxDivisions: 8, MinCellSize: 1e-6, LeafSplitCount: 1}
	tree, err := New(points, planarExtents{}, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := tree.CloseTo(geom.Point{X: 0, Y: 0}, 0.01)
	if err != nil {
		t.Fatalf("CloseTo: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 planar matches, got %d", len(got))
	}
}

// planarExtents treats points as 2D: Z never contributes to distance.
type planarExtents struct{}

func (planarExtents) MinCoord(a geom.Axis, p geom.Point) float64 { return p.Coord(a) }
func (planarExtents) MaxCoord(a geom.Axis, p geom.Point) float64 { return p.Coord(a) }
func (planarExtents) DistanceSquared(q geom.Point, p geom.Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return dx*dx + dy*dy
}
func (planarExtents) MinDistanceSquared(a, b geom.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
func (planarExtents) CoordinateOnAxis(a geom.Axis, p geom.Point) float64 { return p.Coord(a) }

// gridPoints builds nx*ny*nz points spaced `step` apart.
func gridPoints(nx, ny, nz int, step float64) []geom.Point {
	points := make([]geom.Point, 0, nx*ny*nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				points = append(points, geom.Point{
					X: float64(i) * step,
					Y: float64(j) * step,
					Z: float64(k) * step,
				})
			}
		}
	}
	return points
}

func bruteForceCloseTo(points []geom.Point, p geom.Point, r float64) []geom.Point {
	var out []geom.Point
	for _, q := range points {
		if p.DistanceSquared(q) <= r*r {
			out = append(out, q)
		}
	}
	return out
}
