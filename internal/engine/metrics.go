package engine

import (
	"github.com/piwi3910/coinpack/internal/geometry"
	"github.com/piwi3910/coinpack/internal/model"
)

// FlagOverlaps marks every circle that has another circle closer than the
// touching distance minus displayEpsilon.
func FlagOverlaps(circles []*model.Circle, displayEpsilon float64) map[int]bool {
	flags := make(map[int]bool)
	for i := 0; i < len(circles); i++ {
		a := circles[i]
		for j := i + 1; j < len(circles); j++ {
			b := circles[j]
			if geometry.Overlaps(a.Center(), b.Center(), a.R+b.R-displayEpsilon) {
				flags[a.ID] = true
				flags[b.ID] = true
			}
		}
	}
	return flags
}

// ComputeMetrics derives the overlap flags and the mode-specific count, area
// and density for the packed circles.
func ComputeMetrics(circles []*model.Circle, policy Policy, settings model.Settings) model.Metrics {
	m := model.Metrics{
		Mode:        policy.Mode(),
		Total:       len(circles),
		Overlapping: FlagOverlaps(circles, settings.DisplayEpsilon),
	}
	policy.Tally(circles, m.Overlapping, &m)
	return m
}
