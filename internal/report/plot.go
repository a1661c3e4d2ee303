// Package report writes offline artefacts for a cleanup run: PNG
// scatter plots of where duplicates were found, for runs reviewed
// without the web UI.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/gantry-data/strukt/internal/cleanup"
	"github.com/gantry-data/strukt/internal/model"
)

// WriteMergeScatter writes an XY scatter of the model's surviving nodes
// with the run's merge sites overlaid. Returns the written file path.
func WriteMergeScatter(outputDir string, m *model.Model, rep *cleanup.Report) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	stats := StatsForRun(rep)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Node merges: %s (tolerance %gm, %d merges, mean offset %.3gm)",
		rep.ModelName, rep.Tolerance, stats.Count, stats.MeanDistance)
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	nodeXY := make(plotter.XYs, len(m.Nodes))
	for i, n := range m.Nodes {
		nodeXY[i].X = n.Position.X
		nodeXY[i].Y = n.Position.Y
	}
	nodes, err := plotter.NewScatter(nodeXY)
	if err != nil {
		return "", fmt.Errorf("failed to build node scatter: %w", err)
	}
	nodes.GlyphStyle.Radius = vg.Points(1.5)

	mergeXY := make(plotter.XYs, len(rep.Merges))
	for i, mg := range rep.Merges {
		mergeXY[i].X = mg.SurvivorX
		mergeXY[i].Y = mg.SurvivorY
	}
	merges, err := plotter.NewScatter(mergeXY)
	if err != nil {
		return "", fmt.Errorf("failed to build merge scatter: %w", err)
	}
	merges.GlyphStyle.Radius = vg.Points(4)
	merges.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(plotter.NewGrid(), nodes, merges)
	p.Legend.Add("nodes", nodes)
	p.Legend.Add("merge sites", merges)

	outPath := filepath.Join(outputDir, fmt.Sprintf("merges-%s.png", rep.RunID))
	if err := p.Save(8*vg.Inch, 8*vg.Inch, outPath); err != nil {
		return "", fmt.Errorf("failed to save plot: %w", err)
	}
	return outPath, nil
}
