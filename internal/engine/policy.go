package engine

import (
	"math"

	"github.com/piwi3910/coinpack/internal/geometry"
	"github.com/piwi3910/coinpack/internal/model"
)

// Policy captures everything that differs between the two operating modes:
// where the container edge is, which radius applies, what happens to a
// circle dropped outside, and how the metrics are tallied.
type Policy interface {
	Mode() model.Mode
	BoxSize() float64
	Radius() float64

	// Contain pulls a circle back inside the boundary. It reports whether the
	// circle moved.
	Contain(c *model.Circle) bool

	// AcceptsDrop reports whether a drag released at p places the circle.
	AcceptsDrop(p model.Point) bool

	// RejectOutcome tells what happens to a circle whose drop was not accepted.
	RejectOutcome(isNew bool) model.DropOutcome

	// Tally fills the mode-specific counters of m from the packed circles.
	Tally(circles []*model.Circle, overlapping map[int]bool, m *model.Metrics)
}

// PolicyFor returns the boundary policy for the settings' active mode.
func PolicyFor(settings model.Settings) Policy {
	if settings.Mode == model.ModePuzzle {
		return HardBoundary{Box: settings.PuzzleBoxSize, R: settings.PuzzleRadius}
	}
	return SoftBoundary{Box: settings.SandboxBoxSize, R: float64(settings.Radius)}
}

// SoftBoundary is the sandbox policy: circles may hang over the edge and only
// coin-to-coin separation is enforced.
type SoftBoundary struct {
	Box float64
	R   float64
}

func (SoftBoundary) Mode() model.Mode { return model.ModeSandbox }
func (s SoftBoundary) BoxSize() float64 { return s.Box }
func (s SoftBoundary) Radius() float64 { return s.R }
func (SoftBoundary) Contain(*model.Circle) bool { return false }

// AcceptsDrop requires the center to lie strictly within the box grown by one
// radius on every side.
func (s SoftBoundary) AcceptsDrop(p model.Point) bool {
	return p.X > -s.R && p.X < s.Box+s.R &&
		p.Y > -s.R && p.Y < s.Box+s.R
}

// RejectOutcome discards new circles; packed circles snap back to where they were.
func (SoftBoundary) RejectOutcome(isNew bool) model.DropOutcome {
	if isNew {
		return model.OutcomeDiscarded
	}
	return model.OutcomeSnappedBack
}

// Tally sums the in-box share of every non-overlapping disk. The displayed
// count is every packed circle; overlap only affects the area.
func (s SoftBoundary) Tally(circles []*model.Circle, overlapping map[int]bool, m *model.Metrics) {
	m.Count = len(circles)
	m.ContainerArea = model.SandboxBoxSize * model.SandboxBoxSize

	var area float64
	for _, c := range circles {
		if overlapping[c.ID] {
			continue
		}
		area += c.Area() * geometry.AreaInsideSquare(c.Center(), c.R, s.Box)
	}
	m.PackedArea = area
	if m.ContainerArea > 0 {
		m.Density = math.Round(area/m.ContainerArea*100*100) / 100
	}
}

// HardBoundary is the puzzle policy: every disk must stay entirely inside the box.
type HardBoundary struct {
	Box float64
	R   float64
}

func (HardBoundary) Mode() model.Mode { return model.ModePuzzle }
func (h HardBoundary) BoxSize() float64 { return h.Box }
func (h HardBoundary) Radius() float64 { return h.R }

// Contain clamps the center into [r, box-r] on both axes.
func (h HardBoundary) Contain(c *model.Circle) bool {
	x := geometry.Clamp(c.X, c.R, h.Box-c.R)
	y := geometry.Clamp(c.Y, c.R, h.Box-c.R)
	if x == c.X && y == c.Y {
		return false
	}
	c.X, c.Y = x, y
	return true
}

// DropTolerance is how far (one diameter) outside the box a puzzle drop may
// land and still be clamped back in.
func (h HardBoundary) DropTolerance() float64 {
	return 2 * h.R
}

func (h HardBoundary) AcceptsDrop(p model.Point) bool {
	tol := h.DropTolerance()
	return p.X > -tol && p.X < h.Box+tol &&
		p.Y > -tol && p.Y < h.Box+tol
}

// RejectOutcome discards new circles and removes packed ones.
func (HardBoundary) RejectOutcome(isNew bool) model.DropOutcome {
	if isNew {
		return model.OutcomeDiscarded
	}
	return model.OutcomeRemoved
}

// Tally counts non-overlapping circles whose whole disk sits inside the box.
func (h HardBoundary) Tally(circles []*model.Circle, overlapping map[int]bool, m *model.Metrics) {
	m.ContainerArea = model.PuzzleBoxSize * model.PuzzleBoxSize
	for _, c := range circles {
		if overlapping[c.ID] {
			continue
		}
		if h.FullyInside(c) {
			m.Count++
		}
	}
}

// FullyInside reports whether the circle center lies in the clamp region.
func (h HardBoundary) FullyInside(c *model.Circle) bool {
	return c.X >= c.R && c.X <= h.Box-c.R &&
		c.Y >= c.R && c.Y <= h.Box-c.R
}
