package lod

import (
	"testing"
	"time"

	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/tile"
	"github.com/gogpu/hips/tilecache"
	"github.com/gogpu/hips/view"
)

func newReadyCache(t *testing.T) *tilecache.Cache {
	t.Helper()
	c, err := tilecache.New(tilecache.Config{TileSize: 2, PageSize: 8, Pages: 2, Format: tile.FormatRGBA8})
	if err != nil {
		t.Fatal(err)
	}
	for _, root := range healpix.BaseCells() {
		push(t, c, root, false)
	}
	return c
}

func push(t *testing.T, c *tilecache.Cache, cell healpix.Cell, missing bool) {
	t.Helper()
	if err := c.Push(cell, tile.Placeholder(tile.FormatRGBA8, 2), time.Time{}, missing); err != nil {
		t.Fatalf("Push(%s): %v", cell, err)
	}
}

func cellOf(c *tilecache.Cache, ref tilecache.SlotRef) healpix.Cell {
	return c.Slot(ref).Cell
}

func TestMotionFor(t *testing.T) {
	tests := []struct {
		a    view.UserAction
		want Motion
	}{
		{view.Starting, Move},
		{view.Moving, Move},
		{view.Zooming, Zoom},
		{view.Unzooming, Unzoom},
	}
	for _, tt := range tests {
		if got := MotionFor(tt.a); got != tt.want {
			t.Errorf("MotionFor(%v) = %v, want %v", tt.a, got, tt.want)
		}
	}
}

func TestSelectOnlyRootsResident(t *testing.T) {
	c := newReadyCache(t)
	cell := healpix.NewCell(3, 700)
	root := cell.Ancestor(0)

	for _, m := range []Motion{Move, Zoom, Unzoom} {
		pairs := Select(m, []healpix.Cell{cell}, c)
		if len(pairs) != 1 {
			t.Fatalf("%v: %d pairs", m, len(pairs))
		}
		if s, e := cellOf(c, pairs[0].Start), cellOf(c, pairs[0].End); s != root || e != root {
			t.Errorf("%v: pair = (%s, %s), want (%s, %s)", m, s, e, root, root)
		}
	}
}

func TestSelectOwnTileResident(t *testing.T) {
	c := newReadyCache(t)
	cell := healpix.NewCell(3, 700)
	anc := cell.Ancestor(1)
	push(t, c, anc, false)
	push(t, c, cell, false)

	for _, m := range []Motion{Move, Zoom} {
		p := Select(m, []healpix.Cell{cell}, c)[0]
		if s, e := cellOf(c, p.Start), cellOf(c, p.End); s != anc || e != cell {
			t.Errorf("%v: pair = (%s, %s), want (%s, %s)", m, s, e, anc, cell)
		}
	}

	p := Select(Unzoom, []healpix.Cell{cell}, c)[0]
	if p.Start != p.End || cellOf(c, p.End) != cell {
		t.Errorf("Unzoom: pair = (%s, %s), want own tile twice", cellOf(c, p.Start), cellOf(c, p.End))
	}
}

func TestSelectTwoAncestorLevels(t *testing.T) {
	c := newReadyCache(t)
	cell := healpix.NewCell(4, 3000)
	mid := cell.Ancestor(2)
	push(t, c, mid, false)

	p := Select(Zoom, []healpix.Cell{cell}, c)[0]
	if s, e := cellOf(c, p.Start), cellOf(c, p.End); s != cell.Ancestor(0) || e != mid {
		t.Errorf("pair = (%s, %s), want (%s, %s)", s, e, cell.Ancestor(0), mid)
	}

	p = Select(Unzoom, []healpix.Cell{cell}, c)[0]
	if s, e := cellOf(c, p.Start), cellOf(c, p.End); s != mid || e != mid {
		t.Errorf("Unzoom pair = (%s, %s), want (%s, %s)", s, e, mid, mid)
	}
}

func TestSelectMissingThenFound(t *testing.T) {
	c := newReadyCache(t)
	cell := healpix.NewCell(2, 5)
	push(t, c, cell, true)

	p := Select(Move, []healpix.Cell{cell}, c)[0]
	if e := c.Slot(p.End); e.Cell != cell || !e.Missing {
		t.Fatalf("end slot = %+v, want missing placeholder of %s", e, cell)
	}

	push(t, c, cell, false)
	p = Select(Move, []healpix.Cell{cell}, c)[0]
	if e := c.Slot(p.End); e.Cell != cell || e.Missing {
		t.Errorf("end slot = %+v, want real tile of %s", e, cell)
	}
}

func TestSelectKeepsOrder(t *testing.T) {
	c := newReadyCache(t)
	cells := []healpix.Cell{healpix.NewCell(0, 9), healpix.NewCell(1, 2), healpix.NewCell(1, 40)}
	push(t, c, cells[1], false)

	pairs := Select(Move, cells, c)
	if len(pairs) != len(cells) {
		t.Fatalf("%d pairs for %d cells", len(pairs), len(cells))
	}
	if cellOf(c, pairs[0].End) != cells[0] {
		t.Error("pair 0 does not end on its own root")
	}
	if cellOf(c, pairs[1].End) != cells[1] {
		t.Error("pair 1 does not end on its own tile")
	}
	if cellOf(c, pairs[2].End) != cells[2].Ancestor(0) {
		t.Error("pair 2 does not end on its root")
	}
}
