// Package geometry provides the pure distance, overlap and containment
// helpers used by the packing resolver and the metric tally.
package geometry

import (
	"math"

	"github.com/piwi3910/coinpack/internal/model"
)

// Distance returns the Euclidean distance between two circle centers.
func Distance(a, b model.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Overlaps reports whether two centers are closer than threshold.
// Callers pass either the resolution threshold or the looser display threshold.
func Overlaps(a, b model.Point, threshold float64) bool {
	return Distance(a, b) < threshold
}

// Clamp limits v to [lo, hi]. When the range is inverted (a circle wider than
// the box) the midpoint is returned so the result stays stable.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(v, hi))
}

// AreaInsideSquare estimates the fraction (0..1) of a circle's area that lies
// inside [0,boxSize]x[0,boxSize].
//
// Each axis is clipped independently: the share of the diameter span
// [c-r, c+r] that falls inside [0, boxSize] is computed per axis and the two
// shares are multiplied. This treats the two clippings as independent and is
// an accepted approximation of true circular-segment area, not exact geometry.
func AreaInsideSquare(center model.Point, r, boxSize float64) float64 {
	if r <= 0 {
		if center.X >= 0 && center.X <= boxSize && center.Y >= 0 && center.Y <= boxSize {
			return 1
		}
		return 0
	}
	return axisFraction(center.X, r, boxSize) * axisFraction(center.Y, r, boxSize)
}

// axisFraction returns the share of [c-r, c+r] inside [0, size]. r must be positive.
func axisFraction(c, r, size float64) float64 {
	lo := math.Max(c-r, 0)
	hi := math.Min(c+r, size)
	if hi <= lo {
		return 0
	}
	return (hi - lo) / (2 * r)
}
