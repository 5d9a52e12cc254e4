// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/lod"
	"github.com/gogpu/hips/projection"
	"github.com/gogpu/hips/tilecache"
	"github.com/gogpu/hips/view"
)

// RasterVertexStride is the size in bytes of one raster vertex.
const RasterVertexStride = 48

// Atlas is the tile cache as seen by the geometry builders.
type Atlas interface {
	UVW(cell healpix.Cell, ref tilecache.SlotRef) tilecache.TileUVW
	Slot(ref tilecache.SlotRef) tilecache.Slot
	Epoch() time.Time
}

// Vertex is one raster vertex.
type Vertex struct {
	// Position is the point on the unit sphere.
	Position [3]float32

	// UVStart and UVEnd are the atlas coordinates in the tiles the cell
	// blends from and to.
	UVStart tilecache.UVW
	UVEnd   tilecache.UVW

	// TimeTileReceived is the arrival of the end tile, in milliseconds since
	// the atlas epoch.
	TimeTileReceived float32

	// MissingStart and MissingEnd are 1 when the tile is a placeholder.
	MissingStart float32
	MissingEnd   float32
}

// Mesh is the raster geometry of one survey layer.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16

	cells  int
	culled int
	builds int
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{}
}

// Build replaces the mesh with the tessellation of cells. pairs must be
// aligned with cells, as returned by lod.Select.
//
// Each cell is sampled on a grid of healpix.NumSegments(depth) segments per
// edge. A cell with no grid point representable through proj is skipped.
func (m *Mesh) Build(cells []healpix.Cell, pairs []lod.Pair, atlas Atlas, proj projection.Projection, cam *view.Camera) {
	if len(cells) != len(pairs) {
		panic("render: cells and pairs are not aligned")
	}
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
	m.cells, m.culled = 0, 0
	m.builds++

	epoch := atlas.Epoch()
	for i, cell := range cells {
		n := healpix.NumSegments(cell.Depth)
		pts := healpix.GridLonLat(cell, n)
		if !anyOnScreen(pts, proj, cam) {
			m.culled++
			continue
		}
		m.addCell(cell, n, pts, pairs[i], atlas, epoch)
	}
}

func (m *Mesh) addCell(cell healpix.Cell, n int, pts []healpix.LonLat, p lod.Pair, atlas Atlas, epoch time.Time) {
	nv := n + 1
	base := len(m.Vertices)
	if base+nv*nv > math.MaxUint16+1 {
		panic("render: mesh exceeds the 16-bit index range")
	}

	uvS := atlas.UVW(cell, p.Start)
	uvE := atlas.UVW(cell, p.End)
	start := atlas.Slot(p.Start)
	end := atlas.Slot(p.End)
	t := millisSince(epoch, end.StartTime)
	ms, me := flag(start.Missing), flag(end.Missing)

	for i := 0; i < nv; i++ {
		v := float32(i) / float32(n)
		for j := 0; j < nv; j++ {
			u := float32(j) / float32(n)
			pos := pts[j+i*nv].Vector()
			m.Vertices = append(m.Vertices, Vertex{
				Position:         [3]float32{float32(pos[0]), float32(pos[1]), float32(pos[2])},
				UVStart:          uvS.At(u, v),
				UVEnd:            uvE.At(u, v),
				TimeTileReceived: t,
				MissingStart:     ms,
				MissingEnd:       me,
			})
		}
	}

	// Two triangles per grid quad: (0, 1, 2) and (1, 3, 2).
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v0 := uint16(base + j + i*nv)
			v1 := v0 + 1
			v2 := v0 + uint16(nv)
			v3 := v2 + 1
			m.Indices = append(m.Indices, v0, v1, v2, v1, v3, v2)
		}
	}
	m.cells++
}

// Cells returns the number of cells in the mesh.
func (m *Mesh) Cells() int { return m.cells }

// Culled returns the number of cells skipped by the last build.
func (m *Mesh) Culled() int { return m.culled }

// Builds returns how many times the mesh was built.
func (m *Mesh) Builds() int { return m.builds }

// Empty reports whether the mesh has nothing to draw.
func (m *Mesh) Empty() bool { return len(m.Indices) == 0 }

// VertexBytes encodes the vertices as laid out by RasterLayout.
func (m *Mesh) VertexBytes() []byte {
	buf := make([]byte, len(m.Vertices)*RasterVertexStride)
	for i := range m.Vertices {
		writeVertex(buf[i*RasterVertexStride:], &m.Vertices[i])
	}
	return buf
}

// IndexBytes encodes the indices as little-endian uint16.
func (m *Mesh) IndexBytes() []byte {
	return indexBytes(m.Indices)
}

func writeVertex(buf []byte, v *Vertex) {
	f := [12]float32{
		v.Position[0], v.Position[1], v.Position[2],
		v.UVStart[0], v.UVStart[1], v.UVStart[2],
		v.UVEnd[0], v.UVEnd[1], v.UVEnd[2],
		v.TimeTileReceived, v.MissingStart, v.MissingEnd,
	}
	for i, x := range f {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
}

func indexBytes(idx []uint16) []byte {
	// Buffer sizes must be 4-byte aligned.
	n := len(idx) * 2
	n += n % 4
	buf := make([]byte, n)
	for i, x := range idx {
		binary.LittleEndian.PutUint16(buf[i*2:], x)
	}
	return buf
}

func anyOnScreen(pts []healpix.LonLat, proj projection.Projection, cam *view.Camera) bool {
	for _, p := range pts {
		if _, ok := proj.ToScreen(p, cam); ok {
			return true
		}
	}
	return false
}

func millisSince(epoch, t time.Time) float32 {
	return float32(t.Sub(epoch).Seconds() * 1000)
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
