// Package wgpu draws hips collections on a gogpu/wgpu HAL device.
//
// Sink implements hips.DrawSink. A frame is recorded into one render pass:
//
//	sink, err := wgpu.New(device, queue, wgpu.WithTargetFormat(gputypes.TextureFormatBGRA8Unorm))
//	...
//	if err := sink.BeginFrame(view, &gputypes.Color{A: 1}); err != nil {
//	    return err
//	}
//	if err := collection.Draw(cam, nil, sink); err != nil {
//	    sink.DiscardFrame()
//	    return err
//	}
//	_, err = sink.EndFrame()
//
// # Resources
//
// Each survey owns a texture array with one layer per atlas page, vertex
// and index buffers for its mesh and, when ray traced, a lookup table
// texture of RGBA32Float texels, three per cell. The ray-trace grid is
// shared by every survey. Buffers grow to the next power of two and are
// written only when the collection reports new geometry.
//
// Render pipelines are created on first use for each combination of
// program, blend state and cull mode. Bind groups are recreated every
// frame and released once the GPU has finished the submission using them.
package wgpu
