// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/gputypes"

// RasterLayout returns the vertex buffer layout of Mesh.VertexBytes.
func RasterLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: RasterVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
			{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // uv_start
			{Format: gputypes.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 2}, // uv_end
			{Format: gputypes.VertexFormatFloat32, Offset: 36, ShaderLocation: 3},   // time_tile_received
			{Format: gputypes.VertexFormatFloat32, Offset: 40, ShaderLocation: 4},   // m0
			{Format: gputypes.VertexFormatFloat32, Offset: 44, ShaderLocation: 5},   // m1
		},
	}
}

// RaytraceLayout returns the vertex buffer layout of RayTracer.VertexBytes.
func RaytraceLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: RaytraceVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // ndc position
		},
	}
}

// VertexLayouts returns the vertex buffer layouts used in mode m.
func VertexLayouts(m Mode) []gputypes.VertexBufferLayout {
	if m == Raytrace {
		return []gputypes.VertexBufferLayout{RaytraceLayout()}
	}
	return []gputypes.VertexBufferLayout{RasterLayout()}
}
