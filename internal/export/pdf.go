package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/coinpack/internal/model"
)

// rgb is a fill or stroke color.
type rgb struct {
	R, G, B int
}

var (
	coinColor    = rgb{R: 212, G: 175, B: 55} // brass
	overlapColor = rgb{R: 244, G: 67, B: 54}  // red
	boxColor     = rgb{R: 245, G: 240, B: 225}
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	sidebarWidth = 80.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	rowHeight    = 6.0
)

// ExportPDF writes a PDF with the layout diagram on the first page followed
// by a table of circle positions.
func ExportPDF(path string, l Layout) error {
	if l.BoxSize <= 0 {
		return fmt.Errorf("layout has no container")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, l)
	if len(l.Circles) > 0 {
		renderCircleTable(pdf, l)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the container, the coins and the sidebar.
func renderLayoutPage(pdf *fpdf.Fpdf, l Layout) {
	title := l.Title
	if title == "" {
		title = "Coin layout"
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight,
		fmt.Sprintf("%s (%s, session %s)", title, l.Mode, l.SessionID), "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - sidebarWidth
	drawHeight := pageHeight - drawAreaTop - marginBottom

	minX, minY, maxX, maxY := l.Bounds()
	scale := math.Min(drawWidth/(maxX-minX), drawHeight/(maxY-minY))
	offsetX := marginLeft + (drawWidth-(maxX-minX)*scale)/2 - minX*scale
	offsetY := drawAreaTop - minY*scale

	// Container: dashed when coins may spill over the edge
	pdf.SetFillColor(boxColor.R, boxColor.G, boxColor.B)
	pdf.SetDrawColor(60, 60, 60)
	if l.Mode == model.ModeSandbox {
		pdf.SetLineWidth(0.3)
		pdf.SetDashPattern([]float64{2, 1.5}, 0)
	} else {
		pdf.SetLineWidth(0.8)
	}
	pdf.Rect(offsetX, offsetY, l.BoxSize*scale, l.BoxSize*scale, "FD")
	pdf.SetDashPattern([]float64{}, 0)

	for _, c := range l.Circles {
		col := coinColor
		if l.Metrics.IsOverlapping(c.ID) {
			col = overlapColor
		}
		cx := offsetX + c.X*scale
		cy := offsetY + c.Y*scale
		r := c.R * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Circle(cx, cy, r, "FD")

		if r > 3 {
			label := fmt.Sprintf("%d", c.ID)
			pdf.SetFont("Helvetica", "", labelFontSize(r))
			pdf.SetTextColor(0, 0, 0)
			w := pdf.GetStringWidth(label)
			pdf.SetXY(cx-w/2, cy-2)
			pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
		}
	}

	renderSidebar(pdf, l, pageWidth-marginRight-sidebarWidth+5)
}

// renderSidebar lists the counters and places the share code QR.
func renderSidebar(pdf *fpdf.Fpdf, l Layout, x float64) {
	y := drawAreaTop
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y)
	pdf.CellFormat(sidebarWidth-5, 7, "Counters", "", 0, "L", false, 0, "")
	y += 9

	for _, item := range counterItems(l) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(x, y)
		pdf.CellFormat(40, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(30, 6, item.value, "", 0, "L", false, 0, "")
		y += 7
	}

	y += 5
	png, err := NewShareCode(l).EncodeQR()
	if err != nil {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetXY(x, y)
		pdf.MultiCell(sidebarWidth-5, 4, "Layout too large for a share code", "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		return
	}

	size := sidebarWidth - 20
	imgName := "share_" + l.SessionID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(imgName, x, y, size, size, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, y+size+1)
	pdf.CellFormat(size, 4, "Share code: coin centers as JSON", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

type counterItem struct {
	label string
	value string
}

// counterItems mirrors the counters shown next to the board.
func counterItems(l Layout) []counterItem {
	items := []counterItem{
		{"Coins", fmt.Sprintf("%d", l.Metrics.Count)},
		{"Radius", fmt.Sprintf("%.1f px", l.Radius)},
		{"Box", fmt.Sprintf("%.0f x %.0f px", l.BoxSize, l.BoxSize)},
	}
	if l.Mode == model.ModeSandbox {
		items = append(items,
			counterItem{"Packed area", l.Metrics.PackedAreaString()},
			counterItem{"Density", l.Metrics.DensityString()},
		)
	} else {
		items = append(items, counterItem{"Placed", fmt.Sprintf("%d", l.Metrics.Total)})
	}
	return items
}

// renderCircleTable lists every circle, adding pages as needed.
func renderCircleTable(pdf *fpdf.Fpdf, l Layout) {
	colWidths := []float64{25, 45, 45, 45}
	headers := []string{"ID", "X (px)", "Y (px)", "Overlapping"}

	var y float64
	newPage := func() {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, marginTop)
		pdf.CellFormat(100, 7, "Circle positions", "", 0, "L", false, 0, "")
		y = marginTop + 10

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		x := marginLeft
		for i, h := range headers {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[i], rowHeight, h, "1", 0, "C", true, 0, "")
			x += colWidths[i]
		}
		y += rowHeight
		pdf.SetFont("Helvetica", "", 9)
	}

	newPage()
	for i, c := range l.Circles {
		if y+rowHeight > pageHeight-marginBottom {
			newPage()
		}
		overlapping := "no"
		if l.Metrics.IsOverlapping(c.ID) {
			overlapping = "yes"
		}
		row := []string{
			fmt.Sprintf("%d", c.ID),
			fmt.Sprintf("%.2f", c.X),
			fmt.Sprintf("%.2f", c.Y),
			overlapping,
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		x := marginLeft
		for j, cell := range row {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], rowHeight, cell, "1", 0, "C", true, 0, "")
			x += colWidths[j]
		}
		y += rowHeight
	}
}

// labelFontSize picks a font size for a circle id from the drawn radius in mm.
func labelFontSize(r float64) float64 {
	switch {
	case r > 10:
		return 9
	case r > 5:
		return 7
	default:
		return 5
	}
}
