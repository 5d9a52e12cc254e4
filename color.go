package hips

import (
	"fmt"
	"image/color"

	"github.com/gogpu/hips/shader"
	"github.com/gogpu/hips/tile"
)

// Colormap is a two-color ramp for scalar surveys.
type Colormap struct {
	Name      string
	Low, High color.RGBA
}

var colormaps = map[string]Colormap{
	"grayscale":      {Name: "grayscale", Low: color.RGBA{0, 0, 0, 255}, High: color.RGBA{255, 255, 255, 255}},
	"redtemperature": {Name: "redtemperature", Low: color.RGBA{0, 0, 0, 255}, High: color.RGBA{255, 96, 0, 255}},
	"blues":          {Name: "blues", Low: color.RGBA{8, 48, 107, 255}, High: color.RGBA{247, 251, 255, 255}},
}

// LookupColormap returns the built-in colormap called name.
func LookupColormap(name string) (Colormap, bool) {
	cm, ok := colormaps[name]
	return cm, ok
}

// Color describes how a layer turns texels into colors.
type Color struct {
	Mode shader.ColorMode

	// Colormap and Reversed apply to Grayscale2Colormap.
	Colormap Colormap
	Reversed bool

	// Tint and K apply to Grayscale2Color.
	Tint color.RGBA
	K    float32

	// Transfer and the cuts apply to both scalar modes. Physical values
	// in [MinCut, MaxCut] map to [0, 1] before the transfer. Equal cuts
	// mean [0, 1].
	Transfer       shader.Transfer
	MinCut, MaxCut float32
}

// Colored shows RGB tiles as they are.
func Colored() Color {
	return Color{Mode: shader.Colored}
}

// Grayscale2Colormap maps scalar values through cm.
func Grayscale2Colormap(cm Colormap, transfer shader.Transfer, reversed bool) Color {
	return Color{Mode: shader.Grayscale2Colormap, Colormap: cm, Reversed: reversed, Transfer: transfer}
}

// Grayscale2Color multiplies tint by k times the scalar value.
func Grayscale2Color(tint color.RGBA, k float32, transfer shader.Transfer) Color {
	return Color{Mode: shader.Grayscale2Color, Tint: tint, K: k, Transfer: transfer}
}

// WithCuts returns c with the given value range.
func (c Color) WithCuts(lo, hi float32) Color {
	c.MinCut, c.MaxCut = lo, hi
	return c
}

// Validate reports whether c can draw tiles of format f.
func (c Color) Validate(f tile.Format) error {
	switch c.Mode {
	case shader.Colored:
		if !f.IsColor() {
			return fmt.Errorf("colored mode needs RGB tiles, survey is %s", f)
		}
	case shader.Grayscale2Colormap, shader.Grayscale2Color:
	default:
		return fmt.Errorf("unknown color mode %d", int(c.Mode))
	}
	if c.Transfer < shader.Linear || c.Transfer > shader.Pow2 {
		return fmt.Errorf("unknown transfer %d", int(c.Transfer))
	}
	return nil
}

// ShaderKey returns the program drawing a layer of format f with c.
func (c Color) ShaderKey(kind shader.Kind, f tile.Format, projectionName string) shader.Key {
	return shader.Key{Kind: kind, Color: c.Mode, Sample: f.SampleType(), Projection: projectionName}
}

// apply fills the color uniforms of g.
func (c Color) apply(g *shader.Globals, f tile.Format, meta tile.FITSMeta) {
	lo, hi := c.MinCut, c.MaxCut
	if lo == hi {
		lo, hi = 0, 1
	}
	// Unorm texels arrive in [0, 1] already.
	bscale, bzero := float32(1), float32(0)
	if f.IsFITS() {
		bscale, bzero = meta.BScale, meta.BZero
	}
	span := hi - lo
	g.ColorParams = [4]float32{bscale / span, (bzero - lo) / span, float32(c.Transfer), c.K}

	low, high := c.Colormap.Low, c.Colormap.High
	if c.Reversed {
		low, high = high, low
	}
	g.Low = rgba(low, 1)
	g.High = rgba(high, 1)
	g.Tint = rgba(c.Tint, c.K)
}

func rgba(c color.RGBA, k float32) [4]float32 {
	return [4]float32{
		float32(c.R) / 255 * k,
		float32(c.G) / 255 * k,
		float32(c.B) / 255 * k,
		float32(c.A) / 255,
	}
}
