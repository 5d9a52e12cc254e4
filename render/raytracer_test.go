// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"
	"testing"

	"github.com/gogpu/hips/projection"
	"github.com/gogpu/hips/view"
)

func TestRayTracerGridCoversScreen(t *testing.T) {
	r := NewRayTracer(projection.Orthographic{})
	nv := RaytraceGridSegments + 1
	pos := r.Positions()
	if len(pos) != nv*nv {
		t.Fatalf("positions = %d, want %d", len(pos), nv*nv)
	}
	if pos[0] != [2]float32{-1, -1} || pos[len(pos)-1] != [2]float32{1, 1} {
		t.Errorf("corners = %v, %v", pos[0], pos[len(pos)-1])
	}
	if got, want := len(r.Indices()), RaytraceGridSegments*RaytraceGridSegments*6; got != want {
		t.Errorf("indices = %d, want %d", got, want)
	}
	if len(r.VertexBytes()) != nv*nv*RaytraceVertexStride {
		t.Errorf("vertex bytes = %d", len(r.VertexBytes()))
	}
}

func TestRayTracerSetProjection(t *testing.T) {
	r := NewRayTracer(projection.Orthographic{})
	if r.SetProjection(projection.Orthographic{}) {
		t.Error("same projection triggered a rebuild")
	}
	if !r.SetProjection(projection.Gnomonic{}) {
		t.Error("new projection did not trigger a rebuild")
	}
	if r.Projection() != "TAN" || r.Builds() != 2 {
		t.Errorf("Projection = %q, Builds = %d", r.Projection(), r.Builds())
	}
	if len(r.Positions()) != (RaytraceGridSegments+1)*(RaytraceGridSegments+1) {
		t.Error("rebuild did not reset the grid")
	}
}

func TestRayTracerIsRendering(t *testing.T) {
	r := NewRayTracer(projection.Orthographic{})
	narrow := view.NewCamera(800, 600, math.Pi/4)
	wide := view.NewCamera(800, 600, math.Pi)
	if r.IsRendering(projection.Orthographic{}, narrow) {
		t.Error("narrow field of view is ray traced")
	}
	if !r.IsRendering(projection.Orthographic{}, wide) {
		t.Error("wide field of view is not ray traced")
	}
}
