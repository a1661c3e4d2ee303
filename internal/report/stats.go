package report

import (
	"gonum.org/v1/gonum/stat"

	"github.com/gantry-data/strukt/internal/cleanup"
)

// MergeStats summarises the offset distances of a run's merges.
type MergeStats struct {
	Count        int
	MeanDistance float64 // meters
	MaxDistance  float64
	StdDev       float64
}

// StatsForRun computes distance statistics over the run's merges. A run
// with no merges returns a zero MergeStats.
func StatsForRun(rep *cleanup.Report) MergeStats {
	if len(rep.Merges) == 0 {
		return MergeStats{}
	}
	dists := make([]float64, len(rep.Merges))
	max := 0.0
	for i, m := range rep.Merges {
		dists[i] = m.Distance
		if m.Distance > max {
			max = m.Distance
		}
	}
	mean, std := stat.MeanStdDev(dists, nil)
	if len(dists) == 1 {
		std = 0 // MeanStdDev returns NaN for a single sample
	}
	return MergeStats{
		Count:        len(dists),
		MeanDistance: mean,
		MaxDistance:  max,
		StdDev:       std,
	}
}
