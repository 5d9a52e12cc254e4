package tilecache

import "github.com/gogpu/hips/healpix"

// UVW is a texture coordinate in the atlas: U, V in [0, 1] on the page and
// W the page index.
type UVW [3]float32

// TileUVW holds the atlas coordinates of the corners of a cell footprint.
// Bottom corners are at local Y = 0, left corners at local X = 0.
type TileUVW struct {
	BottomLeft  UVW
	BottomRight UVW
	TopLeft     UVW
}

// At interpolates bilinearly inside the footprint. u runs along the local
// X axis and v along the local Y axis.
func (t TileUVW) At(u, v float32) UVW {
	return UVW{
		t.BottomLeft[0] + u*(t.BottomRight[0]-t.BottomLeft[0]) + v*(t.TopLeft[0]-t.BottomLeft[0]),
		t.BottomLeft[1] + u*(t.BottomRight[1]-t.BottomLeft[1]) + v*(t.TopLeft[1]-t.BottomLeft[1]),
		t.BottomLeft[2],
	}
}

// UVW returns the atlas coordinates of cell inside the tile held by ref.
// The slot may hold cell itself or one of its ancestors, in which case the
// coordinates cover the part of the ancestor tile that cell occupies.
func (c *Cache) UVW(cell healpix.Cell, ref SlotRef) TileUVW {
	s := c.slots[ref]
	ox, oy, n := cell.OffsetIn(s.Cell)

	page := float64(c.cfg.PageSize)
	sub := float64(c.cfg.TileSize) / float64(n)
	u0 := (float64(s.X) + float64(ox)*sub) / page
	v0 := (float64(s.Y) + float64(oy)*sub) / page
	d := sub / page
	w := float32(s.Page)

	return TileUVW{
		BottomLeft:  UVW{float32(u0), float32(v0), w},
		BottomRight: UVW{float32(u0 + d), float32(v0), w},
		TopLeft:     UVW{float32(u0), float32(v0 + d), w},
	}
}
