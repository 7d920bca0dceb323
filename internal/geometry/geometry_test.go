package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/coinpack/internal/model"
)

func TestDistance(t *testing.T) {
	d := Distance(model.Point{X: 0, Y: 0}, model.Point{X: 3, Y: 4})
	assert.InDelta(t, 5.0, d, 1e-9)

	d = Distance(model.Point{X: 10, Y: 10}, model.Point{X: 10, Y: 10})
	assert.Equal(t, 0.0, d, "coincident centers have zero distance")
}

func TestOverlaps(t *testing.T) {
	a := model.Point{X: 50, Y: 50}
	b := model.Point{X: 50, Y: 65}

	assert.True(t, Overlaps(a, b, 20), "distance 15 is below the touching distance 20")
	assert.False(t, Overlaps(a, model.Point{X: 50, Y: 70}, 20), "exact tangency is not an overlap")
	assert.False(t, Overlaps(a, model.Point{X: 50, Y: 69.7}, 20-0.5), "near-tangency passes the looser display threshold")
	assert.True(t, Overlaps(a, model.Point{X: 50, Y: 69.7}, 20-0.001), "near-tangency fails the resolution threshold")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 44.5, Clamp(10, 44.5, 255.5))
	assert.Equal(t, 255.5, Clamp(400, 44.5, 255.5))
	assert.Equal(t, 150.0, Clamp(150, 44.5, 255.5))
	assert.Equal(t, 150.0, Clamp(10, 200, 100), "inverted range collapses to its midpoint")
}

func TestAreaInsideSquare_FullyInside(t *testing.T) {
	frac := AreaInsideSquare(model.Point{X: 150, Y: 150}, 20, 300)
	assert.Equal(t, 1.0, frac)

	// Exactly one radius of margin on every side still counts as fully inside.
	frac = AreaInsideSquare(model.Point{X: 20, Y: 280}, 20, 300)
	assert.Equal(t, 1.0, frac)
}

func TestAreaInsideSquare_HalfOutsideLeftEdge(t *testing.T) {
	frac := AreaInsideSquare(model.Point{X: 0, Y: 150}, 20, 300)
	assert.InDelta(t, 0.5, frac, 1e-12)

	area := math.Pi * 20 * 20 * frac
	assert.InDelta(t, math.Pi*400*0.5, area, 1e-9)
}

func TestAreaInsideSquare_Outside(t *testing.T) {
	tests := []struct {
		name   string
		center model.Point
	}{
		{"left", model.Point{X: -20, Y: 150}},
		{"right", model.Point{X: 325, Y: 150}},
		{"top", model.Point{X: 150, Y: -40}},
		{"bottom", model.Point{X: 150, Y: 320}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0.0, AreaInsideSquare(tt.center, 20, 300))
		})
	}
}

func TestAreaInsideSquare_Corner(t *testing.T) {
	// Center on the corner: half of each axis span is inside, so a quarter overall.
	frac := AreaInsideSquare(model.Point{X: 300, Y: 300}, 10, 300)
	assert.InDelta(t, 0.25, frac, 1e-12)
}

func TestAreaInsideSquare_LinearNearEdge(t *testing.T) {
	// Center 5 inside the left edge with r=10: span [-5, 15] has 15 of 20 inside.
	frac := AreaInsideSquare(model.Point{X: 5, Y: 150}, 10, 300)
	assert.InDelta(t, 0.75, frac, 1e-12)
}

func TestAreaInsideSquare_ZeroRadius(t *testing.T) {
	assert.Equal(t, 1.0, AreaInsideSquare(model.Point{X: 10, Y: 10}, 0, 300))
	assert.Equal(t, 0.0, AreaInsideSquare(model.Point{X: -1, Y: 10}, 0, 300))
	assert.False(t, math.IsNaN(AreaInsideSquare(model.Point{X: 0, Y: 0}, 0, 300)))
}
