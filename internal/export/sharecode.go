package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/coinpack/internal/model"
)

// ShareCode is the compact layout description encoded into QR codes. Centers
// are rounded to one decimal so typical layouts fit in a single code.
type ShareCode struct {
	Mode    model.Mode   `json:"m"`
	Radius  float64      `json:"r"`
	Centers [][2]float64 `json:"c"`
}

// qrPixels is the side length of generated QR images.
const qrPixels = 256

// NewShareCode extracts the share code of a layout.
func NewShareCode(l Layout) ShareCode {
	sc := ShareCode{Mode: l.Mode, Radius: l.Radius, Centers: make([][2]float64, 0, len(l.Circles))}
	for _, c := range l.Circles {
		sc.Centers = append(sc.Centers, [2]float64{round1(c.X), round1(c.Y)})
	}
	return sc
}

// Points returns the centers as points, ready to seed a session.
func (sc ShareCode) Points() []model.Point {
	points := make([]model.Point, len(sc.Centers))
	for i, c := range sc.Centers {
		points[i] = model.Point{X: c[0], Y: c[1]}
	}
	return points
}

// ParseShareCode decodes the JSON payload read back from a QR code.
func ParseShareCode(data []byte) (ShareCode, error) {
	var sc ShareCode
	if err := json.Unmarshal(data, &sc); err != nil {
		return ShareCode{}, fmt.Errorf("failed to parse share code: %w", err)
	}
	mode, err := model.ParseMode(string(sc.Mode))
	if err != nil {
		return ShareCode{}, fmt.Errorf("invalid share code: %w", err)
	}
	sc.Mode = mode
	return sc, nil
}

// EncodeQR renders the share code as a PNG QR image.
func (sc ShareCode) EncodeQR() ([]byte, error) {
	data, err := json.Marshal(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal share code: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, qrPixels)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code for %d circles: %w", len(sc.Centers), err)
	}
	return png, nil
}

// ExportQR writes the layout share code as a PNG file.
func ExportQR(path string, l Layout) error {
	png, err := NewShareCode(l).EncodeQR()
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0644)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
