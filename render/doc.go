// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render builds the GPU-ready geometry of a survey layer.
//
// A frame is drawn in one of two modes:
//
//   - Raytrace: a screen-covering grid is drawn once per layer and the
//     fragment shader finds the HEALPix cell of every pixel. Used for wide
//     fields of view where most of the sphere is visible.
//   - Rasterize: every visible cell is tessellated into a small grid of
//     vertices carrying the atlas coordinates of the two tiles it blends
//     between.
//
// The mode is decided once per frame by a ModeSwitch. Mesh holds the raster
// geometry and is rebuilt only when NeedsRebuild reports that its inputs
// changed. RayTracer holds the ray-trace grid, and RaytraceLUT the per-cell
// table the ray-trace shader samples.
//
// # Usage
//
//	sw := render.NewModeSwitch()
//	frame := sw.Next(proj.RaytracingIsBeneficial(cam))
//	if frame.Mode == render.Rasterize &&
//		render.NeedsRebuild(view.NewCells(), cache.TakeChanged(), frame.SwitchFromRaytrace) {
//		pairs := lod.Select(motion, view.Cells(), cache)
//		mesh.Build(view.Cells(), pairs, cache, proj, cam)
//	}
//	// draw
//	sw.Commit()
//
// Vertex data is little-endian float32, laid out as described by
// RasterLayout and RaytraceLayout.
package render
