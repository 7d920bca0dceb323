package model

import (
	"fmt"
	"math"
	"strings"
)

// Mode represents the active operating mode of a session.
type Mode string

const (
	ModeSandbox Mode = "sandbox" // Soft edges, user radius, packed area/density metric
	ModePuzzle  Mode = "puzzle"  // Hard edges, fixed coin, count of fully contained coins
)

func (m Mode) String() string {
	switch m {
	case ModePuzzle:
		return "Puzzle"
	default:
		return "Sandbox"
	}
}

// ParseMode converts user input into a Mode. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sandbox", "":
		return ModeSandbox, nil
	case "puzzle":
		return ModePuzzle, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected sandbox or puzzle)", s)
	}
}

// Point represents a 2D coordinate in container-local pixels.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Circle is a packed coin. ID is immutable once assigned; the radius is shared
// by every circle of a session and is rewritten when the session radius changes.
type Circle struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	R  float64 `json:"r"`
}

// Center returns the circle center.
func (c Circle) Center() Point {
	return Point{X: c.X, Y: c.Y}
}

// MoveTo sets the circle center.
func (c *Circle) MoveTo(p Point) {
	c.X = p.X
	c.Y = p.Y
}

// Area returns the full disk area.
func (c Circle) Area() float64 {
	return math.Pi * c.R * c.R
}

// Board geometry and resolver defaults, in px.
const (
	SandboxBoxSize = 300.0
	PuzzleBoxSize  = 300.0

	// PuzzleCoinDiameter keeps the 64.27mm box / 19.05mm penny ratio on a 300px box.
	PuzzleCoinDiameter = 89.0
	PuzzleCoinRadius   = PuzzleCoinDiameter / 2

	DefaultRadius       = 20
	DefaultIterationCap = 8

	// ResolveEpsilon is the slack below the touching distance that the
	// resolver tolerates before separating a pair.
	ResolveEpsilon = 0.001
	// DisplayEpsilon is the slack below the touching distance used by the
	// overlap flag, so near-tangent coins are not reported as overlapping.
	DisplayEpsilon = 0.5
)

// Settings holds the session configuration.
type Settings struct {
	Mode           Mode    `json:"mode"`
	Radius         int     `json:"radius"`           // Sandbox coin radius, px
	SandboxBoxSize float64 `json:"sandbox_box_size"` // px
	PuzzleBoxSize  float64 `json:"puzzle_box_size"`  // px
	PuzzleRadius   float64 `json:"puzzle_radius"`    // Fixed puzzle coin radius, px
	IterationCap   int     `json:"iteration_cap"`    // Max relaxation passes per resolve
	ResolveEpsilon float64 `json:"resolve_epsilon"`  // px
	DisplayEpsilon float64 `json:"display_epsilon"`  // px
}

func DefaultSettings() Settings {
	return Settings{
		Mode:           ModeSandbox,
		Radius:         DefaultRadius,
		SandboxBoxSize: SandboxBoxSize,
		PuzzleBoxSize:  PuzzleBoxSize,
		PuzzleRadius:   PuzzleCoinRadius,
		IterationCap:   DefaultIterationCap,
		ResolveEpsilon: ResolveEpsilon,
		DisplayEpsilon: DisplayEpsilon,
	}
}

// DropOutcome describes what happened to a circle when a drag ended.
type DropOutcome string

const (
	OutcomePlaced      DropOutcome = "placed"       // Accepted into the packed set
	OutcomeDiscarded   DropOutcome = "discarded"    // New circle dropped outside, never packed
	OutcomeSnappedBack DropOutcome = "snapped_back" // Existing circle returned to its last valid position
	OutcomeRemoved     DropOutcome = "removed"      // Existing circle taken out of the packed set
	OutcomeIgnored     DropOutcome = "ignored"      // No drag was active
)

// Metrics holds the derived counters recomputed on every state change.
type Metrics struct {
	Mode          Mode         `json:"mode"`
	Count         int          `json:"count"`          // Displayed count
	Total         int          `json:"total"`          // Packed circles, overlapping or not
	PackedArea    float64      `json:"packed_area"`    // Sandbox only, px²
	ContainerArea float64      `json:"container_area"` // Nominal container area, px²
	Density       float64      `json:"density"`        // Sandbox only, percent
	Overlapping   map[int]bool `json:"overlapping"`    // Circle IDs flagged as overlapping
}

// IsOverlapping reports whether the circle with the given ID is flagged.
func (m Metrics) IsOverlapping(id int) bool {
	return m.Overlapping[id]
}

// DensityString formats the density to two decimals with a percent sign.
func (m Metrics) DensityString() string {
	return fmt.Sprintf("%.2f%%", m.Density)
}

// PackedAreaString formats the packed area to two decimals.
func (m Metrics) PackedAreaString() string {
	return fmt.Sprintf("%.2f", m.PackedArea)
}
