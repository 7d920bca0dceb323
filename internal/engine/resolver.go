// Package engine implements the packing core: the relaxation resolver that
// separates overlapping circles, the per-mode boundary policies and the
// metric tally.
package engine

import (
	"log/slog"
	"math"

	"github.com/piwi3910/coinpack/internal/geometry"
	"github.com/piwi3910/coinpack/internal/model"
)

// NoDrag is passed as the drag ID when no circle is being dragged.
const NoDrag = -1

// Resolver runs the iterative relaxation that pushes overlapping circles apart.
type Resolver struct {
	IterationCap int
	Epsilon      float64
	Logger       *slog.Logger
}

func NewResolver(settings model.Settings) *Resolver {
	return &Resolver{
		IterationCap: settings.IterationCap,
		Epsilon:      settings.ResolveEpsilon,
		Logger:       slog.Default(),
	}
}

// ResolveStats summarizes one Resolve call.
type ResolveStats struct {
	Passes      int  // Relaxation passes executed
	Corrections int  // Pair separations and boundary clamps applied
	Converged   bool // A pass finished without moving anything
}

// Resolve separates overlapping circles in place.
//
// While finalDrop is false the circle with ID dragID holds its position (the
// pointer owns it) and its partner absorbs the whole correction. Passing
// finalDrop=true lets every circle take part so nothing is left overlapping
// just because it was mid-drag.
func (r *Resolver) Resolve(circles []*model.Circle, policy Policy, dragID int, finalDrop bool) ResolveStats {
	var stats ResolveStats
	if len(circles) < 2 {
		stats.Converged = true
		return stats
	}

	maxPasses := r.IterationCap
	if maxPasses < 1 {
		maxPasses = model.DefaultIterationCap
	}
	pinned := dragID
	if finalDrop {
		pinned = NoDrag
	}

	for pass := 0; pass < maxPasses; pass++ {
		stats.Passes++
		moved := r.separate(circles, pinned)
		for _, c := range circles {
			if c.ID == pinned {
				continue
			}
			if policy.Contain(c) {
				moved++
			}
		}
		stats.Corrections += moved
		if moved == 0 {
			stats.Converged = true
			break
		}
	}

	r.logger().Debug("resolve finished",
		"mode", policy.Mode(),
		"circles", len(circles),
		"passes", stats.Passes,
		"corrections", stats.Corrections,
		"converged", stats.Converged,
		"final", finalDrop,
	)
	return stats
}

// separate runs one sweep over every unordered pair and returns the number of
// pairs it pushed apart.
func (r *Resolver) separate(circles []*model.Circle, pinned int) int {
	moved := 0
	for i := 0; i < len(circles); i++ {
		a := circles[i]
		for j := i + 1; j < len(circles); j++ {
			b := circles[j]
			touching := a.R + b.R
			d := geometry.Distance(a.Center(), b.Center())
			if d >= touching-r.Epsilon {
				continue
			}

			overlap := touching - d
			// atan2(0, 0) is 0, so coincident centers split along +x.
			angle := math.Atan2(b.Y-a.Y, b.X-a.X)
			ux, uy := math.Cos(angle), math.Sin(angle)

			switch {
			case a.ID == pinned:
				b.X += ux * overlap
				b.Y += uy * overlap
			case b.ID == pinned:
				a.X -= ux * overlap
				a.Y -= uy * overlap
			default:
				half := overlap / 2
				a.X -= ux * half
				a.Y -= uy * half
				b.X += ux * half
				b.Y += uy * half
			}
			moved++
		}
	}
	return moved
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
