package api

import (
	"bytes"
	"fmt"
	"math"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gantry-data/strukt/internal/httputil"
)

// mergeScatter renders a quick XY scatter (HTML) of a run's merged node
// positions using go-echarts. This is a debugging-only endpoint (no
// auth) to visually check where duplicates clustered in the model.
// Query params:
//   - run_id (required)
func (s *Server) mergeScatter(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		httputil.BadRequest(w, "run_id query parameter is required")
		return
	}
	ok, err := s.db.HasRun(runID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to look up run: %v", err))
		return
	}
	if !ok {
		httputil.NotFound(w, "unknown run_id")
		return
	}

	merges, err := s.db.MergesForRun(runID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load merges: %v", err))
		return
	}
	if len(merges) == 0 {
		httputil.NotFound(w, "run has no merges to plot")
		return
	}

	data := make([]opts.ScatterData, 0, len(merges))
	maxAbs := 0.0
	maxDist := 0.0
	for _, m := range merges {
		if math.Abs(m.SurvivorX) > maxAbs {
			maxAbs = math.Abs(m.SurvivorX)
		}
		if math.Abs(m.SurvivorY) > maxAbs {
			maxAbs = math.Abs(m.SurvivorY)
		}
		if m.Distance > maxDist {
			maxDist = m.Distance
		}
		data = append(data, opts.ScatterData{Value: []interface{}{m.SurvivorX, m.SurvivorY, m.Distance}})
	}

	// Small padding so points at the edges stay visible.
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}
	if maxDist == 0 {
		maxDist = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Node merges (XY)", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Merged node positions", Subtitle: fmt.Sprintf("run=%s merges=%d", runID, len(merges))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxDist),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#31688e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("merges", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
