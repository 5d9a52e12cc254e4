package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand/v2"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/resolver"
	"github.com/gogpu/hips/tile"
)

// errNoTile is returned for cells deeper than the synthetic sky provides.
var errNoTile = errors.New("no tile at this depth")

// canvasSize is the size tiles are painted at before scaling to the survey
// tile size.
const canvasSize = 64

// baseColors tints the twelve base cells.
var baseColors = [12]color.RGBA{
	{230, 25, 75, 255}, {60, 180, 75, 255}, {255, 225, 25, 255}, {0, 130, 200, 255},
	{245, 130, 48, 255}, {145, 30, 180, 255}, {70, 240, 240, 255}, {240, 50, 230, 255},
	{210, 245, 60, 255}, {250, 190, 212, 255}, {0, 128, 128, 255}, {220, 190, 255, 255},
}

// synthetic paints tiles instead of downloading them.
type synthetic struct {
	// holes is the depth from which every seventh cell is missing.
	holes   uint8
	latency time.Duration
	labels  bool
}

func (s synthetic) fetcher() resolver.Fetcher {
	return resolver.FetcherFunc(s.fetch)
}

func (s synthetic) fetch(ctx context.Context, key tile.Key, cfg tile.Config) (tile.Payload, error) {
	if s.latency > 0 {
		d := s.latency/2 + rand.N(s.latency)
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return tile.Payload{}, ctx.Err()
		}
	}
	if s.holes > 0 && key.Cell.Depth >= s.holes && key.Cell.Index%7 == 3 {
		return tile.Payload{}, fmt.Errorf("%s: %w", key, errNoTile)
	}
	if cfg.Format.IsColor() {
		return tile.FromImage(s.paint(key.Cell), cfg.TileSize, cfg.Format)
	}
	if cfg.Format == tile.FormatR32F {
		return tile.FromFloat32(cfg.TileSize, intensity(key.Cell, cfg.TileSize), cfg.FITS)
	}
	return tile.Payload{}, fmt.Errorf("synthetic %s tiles are not supported", cfg.Format)
}

// paint draws a checkered tile tinted by its base cell and darkened with
// depth, optionally labelled with the cell.
func (s synthetic) paint(cell healpix.Cell) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	base := baseColors[cell.Index>>(2*uint(cell.Depth))%12]
	k := 1 / (1 + 0.15*float64(cell.Depth))
	light := scale(base, k)
	dark := scale(base, 0.7*k)
	const check = canvasSize / 4
	for y := 0; y < canvasSize; y += check {
		for x := 0; x < canvasSize; x += check {
			c := light
			if (x/check+y/check)%2 == 1 {
				c = dark
			}
			draw.Draw(img, image.Rect(x, y, x+check, y+check), image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
	if s.labels {
		d := font.Drawer{
			Dst:  img,
			Src:  image.White,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(3, 14),
		}
		d.DrawString(fmt.Sprintf("d%d", cell.Depth))
		d.Dot = fixed.P(3, 30)
		d.DrawString(fmt.Sprintf("%d", cell.Index))
	}
	return img
}

func scale(c color.RGBA, k float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: c.A,
	}
}

// intensity returns a radial ramp centred on the tile, offset by the cell
// index so neighbouring tiles differ.
func intensity(cell healpix.Cell, size int) []float32 {
	values := make([]float32, size*size)
	offset := float64(cell.Index%16) / 16
	c := float64(size-1) / 2
	for y := range size {
		for x := range size {
			r := math.Hypot(float64(x)-c, float64(y)-c) / (c + 1)
			values[y*size+x] = float32(math.Mod(1-r+offset, 1))
		}
	}
	return values
}
