// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/hips/projection"
	"github.com/gogpu/hips/view"
)

const (
	// RaytraceGridSegments is the number of segments per edge of the
	// ray-trace grid.
	RaytraceGridSegments = 32

	// RaytraceVertexStride is the size in bytes of one ray-trace vertex.
	RaytraceVertexStride = 8
)

// RayTracer holds the screen-covering grid drawn in Raytrace mode. One
// RayTracer is shared by every layer of a collection.
type RayTracer struct {
	proj      string
	positions [][2]float32
	indices   []uint16
	builds    int
}

// NewRayTracer builds the grid for proj.
func NewRayTracer(proj projection.Projection) *RayTracer {
	r := &RayTracer{}
	r.SetProjection(proj)
	return r
}

// SetProjection rebuilds the grid if proj differs from the current
// projection. It reports whether a rebuild happened.
func (r *RayTracer) SetProjection(proj projection.Projection) bool {
	if r.builds > 0 && proj.Name() == r.proj {
		return false
	}
	r.proj = proj.Name()
	r.build(RaytraceGridSegments)
	return true
}

func (r *RayTracer) build(n int) {
	nv := n + 1
	r.positions = r.positions[:0]
	r.indices = r.indices[:0]
	for i := 0; i < nv; i++ {
		y := -1 + 2*float32(i)/float32(n)
		for j := 0; j < nv; j++ {
			x := -1 + 2*float32(j)/float32(n)
			r.positions = append(r.positions, [2]float32{x, y})
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v0 := uint16(j + i*nv)
			v1 := v0 + 1
			v2 := v0 + uint16(nv)
			v3 := v2 + 1
			r.indices = append(r.indices, v0, v1, v2, v1, v3, v2)
		}
	}
	r.builds++
}

// Projection returns the name of the projection the grid was built for.
func (r *RayTracer) Projection() string { return r.proj }

// Builds returns how many times the grid was built.
func (r *RayTracer) Builds() int { return r.builds }

// IsRendering reports whether a frame drawn with proj and cam is ray traced.
func (r *RayTracer) IsRendering(proj projection.Projection, cam *view.Camera) bool {
	return proj.RaytracingIsBeneficial(cam)
}

// Positions returns the grid vertices in normalized device coordinates.
func (r *RayTracer) Positions() [][2]float32 { return r.positions }

// Indices returns the grid triangles.
func (r *RayTracer) Indices() []uint16 { return r.indices }

// VertexBytes encodes the grid as laid out by RaytraceLayout.
func (r *RayTracer) VertexBytes() []byte {
	buf := make([]byte, len(r.positions)*RaytraceVertexStride)
	for i, p := range r.positions {
		binary.LittleEndian.PutUint32(buf[i*8:], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(buf[i*8+4:], math.Float32bits(p[1]))
	}
	return buf
}

// IndexBytes encodes the grid indices as little-endian uint16.
func (r *RayTracer) IndexBytes() []byte {
	return indexBytes(r.indices)
}
