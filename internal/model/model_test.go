package model

import (
	"math"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"sandbox", ModeSandbox, false},
		{"Puzzle", ModePuzzle, false},
		{"  PUZZLE ", ModePuzzle, false},
		{"", ModeSandbox, false},
		{"arcade", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModeString(t *testing.T) {
	if ModeSandbox.String() != "Sandbox" {
		t.Errorf("expected Sandbox, got %s", ModeSandbox.String())
	}
	if ModePuzzle.String() != "Puzzle" {
		t.Errorf("expected Puzzle, got %s", ModePuzzle.String())
	}
}

func TestPuzzleCoinRadius(t *testing.T) {
	if PuzzleCoinRadius != 44.5 {
		t.Errorf("expected puzzle radius 44.5, got %f", PuzzleCoinRadius)
	}
}

func TestCircleArea(t *testing.T) {
	c := Circle{ID: 1, X: 0, Y: 0, R: 10}
	if math.Abs(c.Area()-math.Pi*100) > 1e-9 {
		t.Errorf("expected area %f, got %f", math.Pi*100, c.Area())
	}
	c.MoveTo(Point{X: 3, Y: 4})
	if c.Center() != (Point{X: 3, Y: 4}) {
		t.Errorf("expected center (3,4), got %+v", c.Center())
	}
}

func TestMetricsFormatting(t *testing.T) {
	m := Metrics{PackedArea: 628.3185307, Density: 0.698131}
	if m.PackedAreaString() != "628.32" {
		t.Errorf("expected 628.32, got %s", m.PackedAreaString())
	}
	if m.DensityString() != "0.70%" {
		t.Errorf("expected 0.70%%, got %s", m.DensityString())
	}
}

func TestMetricsIsOverlappingNilMap(t *testing.T) {
	var m Metrics
	if m.IsOverlapping(3) {
		t.Error("zero Metrics should report no overlaps")
	}
}
