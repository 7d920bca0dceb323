package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"

	"github.com/piwi3910/coinpack/internal/model"
)

// ─── Delimiter Detection Tests ─────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "x,y\n10,20\n30,40\n", ','},
		{"semicolon", "x;y\n10;20\n30;40\n", ';'},
		{"tab", "x\ty\n10\t20\n30\t40\n", '\t'},
		{"pipe", "x|y\n10|20\n30|40\n", '|'},
		{"single column falls back to comma", "10\n20\n", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── Column Detection Tests ────────────────────────────────

func TestDetectColumns_Header(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Label", "Center Y", "Center X"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.X != 2 || mapping.Y != 1 {
		t.Errorf("expected X=2 Y=1, got X=%d Y=%d", mapping.X, mapping.Y)
	}
}

func TestDetectColumns_CaseInsensitive(t *testing.T) {
	mapping, ok := DetectColumns([]string{" CX ", "cy"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.X != 0 || mapping.Y != 1 {
		t.Errorf("expected X=0 Y=1, got X=%d Y=%d", mapping.X, mapping.Y)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, ok := DetectColumns([]string{"10", "20"})
	if ok {
		t.Error("numeric row should not be treated as a header")
	}
	if mapping.X != 0 || mapping.Y != 1 {
		t.Errorf("expected positional mapping, got X=%d Y=%d", mapping.X, mapping.Y)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestImportCSV_WithHeaders(t *testing.T) {
	path := writeTempFile(t, "coins.csv", "id,y,x\n1,150,60\n2,150.5,110.25\n")

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result.Points))
	}
	if result.Points[0] != (model.Point{X: 60, Y: 150}) {
		t.Errorf("unexpected first point: %+v", result.Points[0])
	}
	if result.Points[1] != (model.Point{X: 110.25, Y: 150.5}) {
		t.Errorf("unexpected second point: %+v", result.Points[1])
	}
}

func TestImportCSV_WithoutHeaders(t *testing.T) {
	path := writeTempFile(t, "coins.csv", "10,20\n30,40\n\n50,60\n")

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(result.Points))
	}
	if result.Points[2] != (model.Point{X: 50, Y: 60}) {
		t.Errorf("unexpected last point: %+v", result.Points[2])
	}
	for _, w := range result.Warnings {
		if strings.Contains(w, "header") {
			t.Errorf("unexpected header warning: %s", w)
		}
	}
}

func TestImportCSV_UnrecognizedHeaderSkipped(t *testing.T) {
	path := writeTempFile(t, "coins.csv", "east,north\n10,20\n")

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Points) != 1 || result.Points[0] != (model.Point{X: 10, Y: 20}) {
		t.Errorf("expected one positional point, got %+v", result.Points)
	}
}

func TestImportCSV_SemicolonDelimiter(t *testing.T) {
	path := writeTempFile(t, "coins.csv", "x;y\n10;20\n30;40\n")

	result := ImportCSV(path)

	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d (errors: %v)", len(result.Points), result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_InvalidValues(t *testing.T) {
	path := writeTempFile(t, "coins.csv", "x,y\n10,abc\n,20\n30,40\n")

	result := ImportCSV(path)

	if len(result.Points) != 1 {
		t.Fatalf("expected 1 valid point, got %d", len(result.Points))
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Line 2") || !strings.Contains(result.Errors[0], "Invalid y") {
		t.Errorf("unexpected error: %s", result.Errors[0])
	}
	if !strings.Contains(result.Errors[1], "Missing x") {
		t.Errorf("unexpected error: %s", result.Errors[1])
	}
}

func TestImportCSV_MissingColumn(t *testing.T) {
	path := writeTempFile(t, "coins.csv", "x,label\n10,a\n")

	result := ImportCSV(path)

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if result.Errors[0] != "Required columns not found in header: Y" {
		t.Errorf("unexpected error: %s", result.Errors[0])
	}
	if len(result.Points) != 0 {
		t.Errorf("expected no points, got %d", len(result.Points))
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "coins.csv", "  \n")

	result := ImportCSV(path)

	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
}

func TestImportCSV_MissingFile(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))

	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Cannot open file") {
		t.Errorf("expected open error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("cx|cy\n1.5|2.5\n"), '|')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Points) != 1 || result.Points[0] != (model.Point{X: 1.5, Y: 2.5}) {
		t.Errorf("unexpected points: %+v", result.Points)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coins.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"X", "Y"},
		{60, 150},
		{149, 150},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result.Points))
	}
	if result.Points[1] != (model.Point{X: 149, Y: 150}) {
		t.Errorf("unexpected second point: %+v", result.Points[1])
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{10, 20},
		{30, 40},
	})

	result := ImportExcel(path)

	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d (errors: %v)", len(result.Points), result.Errors)
	}
	if result.Points[0] != (model.Point{X: 10, Y: 20}) {
		t.Errorf("unexpected first point: %+v", result.Points[0])
	}
}

func TestImportExcel_InvalidFile(t *testing.T) {
	path := writeTempFile(t, "coins.xlsx", "not a spreadsheet")

	result := ImportExcel(path)

	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Cannot open Excel file") {
		t.Errorf("expected open error, got %v", result.Errors)
	}
}

// ─── DXF Import Tests ──────────────────────────────────────

func createTestDXF(t *testing.T, circles [][3]float64, lines int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coins.dxf")

	d := dxf.NewDrawing()
	for _, c := range circles {
		if _, err := d.Circle(c[0], c[1], 0, c[2]); err != nil {
			t.Fatalf("failed to add circle: %v", err)
		}
	}
	for i := 0; i < lines; i++ {
		if _, err := d.Line(0, float64(i), 0, 100, float64(i), 0); err != nil {
			t.Fatalf("failed to add line: %v", err)
		}
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF file: %v", err)
	}
	return path
}

func TestImportDXF_Circles(t *testing.T) {
	path := createTestDXF(t, [][3]float64{{60, 150, 20}, {110, 150, 20}}, 0)

	result := ImportDXF(path, 20)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result.Points))
	}
	if result.Points[0] != (model.Point{X: 60, Y: 150}) {
		t.Errorf("unexpected first point: %+v", result.Points[0])
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestImportDXF_RadiusMismatchAndSkippedEntities(t *testing.T) {
	path := createTestDXF(t, [][3]float64{{60, 150, 25}}, 2)

	result := ImportDXF(path, 20)

	if len(result.Points) != 1 {
		t.Fatalf("expected 1 point, got %d (errors: %v)", len(result.Points), result.Errors)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "radius 25.00, using 20.00") {
		t.Errorf("unexpected radius warning: %s", result.Warnings[0])
	}
	if result.Warnings[1] != "Skipped 2 non-circle entities" {
		t.Errorf("unexpected skip warning: %s", result.Warnings[1])
	}
}

func TestImportDXF_AnyRadius(t *testing.T) {
	path := createTestDXF(t, [][3]float64{{10, 10, 3}}, 0)

	result := ImportDXF(path, 0)

	if len(result.Warnings) != 0 {
		t.Errorf("radius check should be disabled, got %v", result.Warnings)
	}
}

func TestImportDXF_NoCircles(t *testing.T) {
	path := createTestDXF(t, nil, 1)

	result := ImportDXF(path, 20)

	if len(result.Points) != 0 {
		t.Errorf("expected no points, got %d", len(result.Points))
	}
	found := false
	for _, e := range result.Errors {
		if e == "No circles found in DXF file" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected no-circles error, got %v", result.Errors)
	}
}

func TestImportDXF_MissingFile(t *testing.T) {
	result := ImportDXF(filepath.Join(t.TempDir(), "missing.dxf"), 20)

	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Cannot open DXF file") {
		t.Errorf("expected open error, got %v", result.Errors)
	}
}
