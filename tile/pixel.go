package tile

import (
	"fmt"
	"image/color"
	"math"
)

// Pixel is a single texel read back from a tile.
type Pixel struct {
	Format Format

	// Color is set for color formats.
	Color color.RGBA

	// Value is the raw value for FITS formats.
	Value float64
}

// Physical returns the value scaled by the FITS parameters.
func (p Pixel) Physical(m FITSMeta) float64 {
	return float64(m.BScale)*p.Value + float64(m.BZero)
}

// IsBlank reports whether the raw value is the FITS blank value.
func (p Pixel) IsBlank(m FITSMeta) bool {
	blank := float64(m.Blank)
	if math.IsNaN(blank) {
		return math.IsNaN(p.Value)
	}
	return p.Value == blank
}

// String implements fmt.Stringer.
func (p Pixel) String() string {
	if p.Format.IsColor() {
		return fmt.Sprintf("rgba(%d, %d, %d, %d)", p.Color.R, p.Color.G, p.Color.B, p.Color.A)
	}
	return fmt.Sprintf("%g", p.Value)
}
