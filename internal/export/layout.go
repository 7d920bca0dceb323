// Package export renders a packing layout to files: a PDF sheet with the
// container, the coins and their counters, and a QR share code that encodes
// the coin centers.
package export

import (
	"math"

	"github.com/piwi3910/coinpack/internal/model"
	"github.com/piwi3910/coinpack/internal/session"
)

// Layout is a frozen copy of a session's board.
type Layout struct {
	Title     string
	SessionID string
	Mode      model.Mode
	BoxSize   float64
	Radius    float64
	Circles   []model.Circle
	Metrics   model.Metrics
}

// FromSession snapshots the current board of s.
func FromSession(s *session.Session, title string) Layout {
	return Layout{
		Title:     title,
		SessionID: s.ID,
		Mode:      s.Mode(),
		BoxSize:   s.BoxSize(),
		Radius:    s.Radius(),
		Circles:   s.Circles(),
		Metrics:   s.Metrics(),
	}
}

// Bounds returns the smallest rectangle holding the container and every
// circle. Sandbox circles may sit partly outside the container.
func (l Layout) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY, maxX, maxY = 0, 0, l.BoxSize, l.BoxSize
	for _, c := range l.Circles {
		minX = math.Min(minX, c.X-c.R)
		minY = math.Min(minY, c.Y-c.R)
		maxX = math.Max(maxX, c.X+c.R)
		maxY = math.Max(maxY, c.Y+c.R)
	}
	return minX, minY, maxX, maxY
}
