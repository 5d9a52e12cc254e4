// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/lod"
	"github.com/gogpu/hips/tilecache"
)

const (
	// LUTMaxDepth is the deepest level a RaytraceLUT covers. Ray tracing is
	// only used for wide fields of view, where the view depth stays shallow.
	LUTMaxDepth = 3

	// LUTEntryStride is the size in bytes of one LUT entry: three vec4.
	LUTEntryStride = 48
)

// LUTEntry locates the two tiles one cell blends between.
//
// Origins are the atlas coordinates of the cell's bottom-left corner and
// Extents the side of its footprint in atlas units.
type LUTEntry struct {
	StartOrigin tilecache.UVW
	StartExtent float32
	EndOrigin   tilecache.UVW
	EndExtent   float32

	TimeTileReceived float32
	MissingStart     float32
	MissingEnd       float32
}

// RaytraceLUT maps every cell of one depth to its atlas entry. The ray-trace
// shader hashes each pixel to a cell at Depth and samples the entry at the
// cell index.
type RaytraceLUT struct {
	depth   uint8
	entries []LUTEntry
}

// LUTDepth returns the depth a LUT uses for a view at depth.
func LUTDepth(depth uint8) uint8 {
	return min(depth, LUTMaxDepth)
}

// LUTCells returns every cell at depth in index order. It panics if depth
// exceeds LUTMaxDepth.
func LUTCells(depth uint8) []healpix.Cell {
	if depth > LUTMaxDepth {
		panic("render: LUT depth too large")
	}
	n := healpix.NumCells(depth)
	cells := make([]healpix.Cell, n)
	for i := range cells {
		cells[i] = healpix.Cell{Depth: depth, Index: uint64(i)}
	}
	return cells
}

// Build fills the table. pairs must hold one pair per cell of LUTCells(depth),
// in the same order.
func (l *RaytraceLUT) Build(depth uint8, pairs []lod.Pair, atlas Atlas) {
	cells := LUTCells(depth)
	if len(pairs) != len(cells) {
		panic("render: LUT pairs do not cover the sphere")
	}
	l.depth = depth
	l.entries = l.entries[:0]
	epoch := atlas.Epoch()
	for i, cell := range cells {
		p := pairs[i]
		s := atlas.UVW(cell, p.Start)
		e := atlas.UVW(cell, p.End)
		start := atlas.Slot(p.Start)
		end := atlas.Slot(p.End)
		l.entries = append(l.entries, LUTEntry{
			StartOrigin:      s.BottomLeft,
			StartExtent:      s.BottomRight[0] - s.BottomLeft[0],
			EndOrigin:        e.BottomLeft,
			EndExtent:        e.BottomRight[0] - e.BottomLeft[0],
			TimeTileReceived: millisSince(epoch, end.StartTime),
			MissingStart:     flag(start.Missing),
			MissingEnd:       flag(end.Missing),
		})
	}
}

// Depth returns the depth of the table.
func (l *RaytraceLUT) Depth() uint8 { return l.depth }

// Len returns the number of entries.
func (l *RaytraceLUT) Len() int { return len(l.entries) }

// Entry returns the entry of cell, which must be at the table depth.
func (l *RaytraceLUT) Entry(cell healpix.Cell) LUTEntry {
	if cell.Depth != l.depth {
		panic("render: cell depth does not match LUT depth")
	}
	return l.entries[cell.Index]
}

// Bytes encodes the table as consecutive float32 vec4 triples.
func (l *RaytraceLUT) Bytes() []byte {
	buf := make([]byte, len(l.entries)*LUTEntryStride)
	for i := range l.entries {
		e := &l.entries[i]
		f := [12]float32{
			e.StartOrigin[0], e.StartOrigin[1], e.StartOrigin[2], e.StartExtent,
			e.EndOrigin[0], e.EndOrigin[1], e.EndOrigin[2], e.EndExtent,
			e.TimeTileReceived, e.MissingStart, e.MissingEnd, 0,
		}
		for k, x := range f {
			binary.LittleEndian.PutUint32(buf[i*LUTEntryStride+k*4:], math.Float32bits(x))
		}
	}
	return buf
}
