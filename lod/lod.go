// Package lod picks, for every visible cell, the two atlas tiles the
// renderer blends between while resolutions load.
package lod

import (
	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/tilecache"
	"github.com/gogpu/hips/view"
)

// Motion is the camera motion that drives the selection rules.
type Motion int

const (
	// Move is a pan at constant zoom.
	Move Motion = iota
	// Zoom is a zoom in.
	Zoom
	// Unzoom is a zoom out.
	Unzoom
)

// String returns the motion name.
func (m Motion) String() string {
	switch m {
	case Move:
		return "Move"
	case Zoom:
		return "Zoom"
	case Unzoom:
		return "Unzoom"
	default:
		return "Unknown"
	}
}

// MotionFor maps the last camera action to a motion. A camera that has not
// moved yet behaves as a pan.
func MotionFor(a view.UserAction) Motion {
	switch a {
	case view.Zooming:
		return Zoom
	case view.Unzooming:
		return Unzoom
	default:
		return Move
	}
}

// Textures is the read-only view of a tile cache the selector needs.
type Textures interface {
	Contains(cell healpix.Cell) bool
	Get(cell healpix.Cell) (tilecache.SlotRef, bool)
	NearestParent(cell healpix.Cell) healpix.Cell
}

// Pair names the slots a cell blends from (Start) and to (End).
type Pair struct {
	Start tilecache.SlotRef
	End   tilecache.SlotRef
}

// Select returns one pair per cell, in the order of cells.
//
// For Move and Zoom, a cell whose own tile is resident blends from its
// nearest resident ancestor to its own tile. Otherwise it blends between the
// two closest resident ancestor levels. For Unzoom, a cell shows its own
// tile if resident, or else its nearest resident ancestor, without blending.
//
// textures must be ready (all base cells resident).
func Select(m Motion, cells []healpix.Cell, textures Textures) []Pair {
	pairs := make([]Pair, len(cells))
	for i, cell := range cells {
		var start, end healpix.Cell
		switch m {
		case Unzoom:
			end = cell
			if !textures.Contains(cell) {
				end = textures.NearestParent(cell)
			}
			start = end
		default:
			if textures.Contains(cell) {
				start, end = textures.NearestParent(cell), cell
			} else {
				end = textures.NearestParent(cell)
				start = textures.NearestParent(end)
			}
		}
		pairs[i] = Pair{Start: mustGet(textures, start), End: mustGet(textures, end)}
	}
	return pairs
}

func mustGet(textures Textures, cell healpix.Cell) tilecache.SlotRef {
	ref, ok := textures.Get(cell)
	if !ok {
		panic("lod: resident cell " + cell.String() + " has no slot")
	}
	return ref
}
