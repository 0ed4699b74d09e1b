// Package units converts between physical lengths and device pixels.
//
// Page geometry is configured in millimeters while packing happens in pixels
// at a fixed resolution. Both directions of the conversion live here so the
// packer and the document writer agree on the same rounding.
//
// # Conversion
//
//	px := units.ToPx(units.Mm(210), 300) // 2480
//	mm := units.ToMm(2480, 300)          // 209.97...
//
// ToPx rounds to the nearest pixel, so a round trip through ToMm and back
// reproduces the input within one pixel.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MmPerInch is the number of millimeters in one inch.
const MmPerInch = 25.4

// PtPerInch is the number of PostScript points in one inch.
const PtPerInch = 72.0

// Mm is a physical length in millimeters.
type Mm float64

// String formats the length with two decimals and a unit suffix.
func (m Mm) String() string {
	return strconv.FormatFloat(float64(m), 'f', 2, 64) + "mm"
}

// Pt converts the length to PostScript points.
func (m Mm) Pt() float64 {
	return float64(m) / MmPerInch * PtPerInch
}

// ToPx converts a physical length to whole device pixels at dpi.
// The result is round(mm / 25.4 * dpi).
func ToPx(mm Mm, dpi int) int {
	return int(math.Round(float64(mm) / MmPerInch * float64(dpi)))
}

// ToMm converts a pixel count at dpi back to millimeters.
// A pixel is 72/dpi points wide; the points are then converted to millimeters.
func ToMm(px int, dpi int) Mm {
	pt := float64(px) * PtPerInch / float64(dpi)
	return Mm(pt * MmPerInch / PtPerInch)
}

// ParseMm parses a length in millimeters. An optional "mm" suffix is accepted.
func ParseMm(s string) (Mm, error) {
	v := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "mm"))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid length %q: not a finite number", s)
	}
	return Mm(f), nil
}
