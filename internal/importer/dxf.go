package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/coinpack/internal/model"
)

// radiusTolerance is how far a drawn circle may differ from the session
// radius before a warning is emitted.
const radiusTolerance = 0.01

// ImportDXF imports coin centers from the CIRCLE entities of a DXF file.
// Coordinates are taken as drawn, in drawing units. When radius is positive,
// circles drawn at a different size produce a warning: the session radius
// always wins because every coin of a session shares one radius.
func ImportDXF(path string, radius float64) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	skipped := 0
	for _, ent := range entities {
		c, ok := ent.(*entity.Circle)
		if !ok {
			skipped++
			continue
		}
		p := model.Point{X: c.Center[0], Y: c.Center[1]}
		if radius > 0 && math.Abs(c.Radius-radius) > radiusTolerance {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Circle at (%.2f, %.2f) has radius %.2f, using %.2f", p.X, p.Y, c.Radius, radius))
		}
		result.Points = append(result.Points, p)
	}

	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d non-circle entities", skipped))
	}
	if len(result.Points) == 0 {
		result.Errors = append(result.Errors, "No circles found in DXF file")
	}
	return result
}
