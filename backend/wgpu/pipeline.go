package wgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hips/render"
	"github.com/gogpu/hips/shader"
)

// layoutKey selects the bind group layout of a program.
type layoutKey struct {
	kind   shader.Kind
	sample gputypes.TextureSampleType
}

// layout pairs a bind group layout with the pipeline layout using it.
type layout struct {
	group    hal.BindGroupLayout
	pipeline hal.PipelineLayout
}

// pipelineKey selects one render pipeline.
type pipelineKey struct {
	program  shader.Key
	sample   gputypes.TextureSampleType
	blending bool
	blend    gputypes.BlendState
	cull     gputypes.CullMode
}

// layoutFor returns the layout of programs of kind sampling atlases of
// the given sample type.
func (s *Sink) layoutFor(k layoutKey) (*layout, error) {
	if l, ok := s.layouts[k]; ok {
		return l, nil
	}
	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform, MinBindingSize: shader.GlobalsSize},
		},
		{
			Binding:    1,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    k.sample,
				ViewDimension: gputypes.TextureViewDimension2DArray,
			},
		},
	}
	if k.kind == shader.Raytrace {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    2,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
	}
	label := fmt.Sprintf("hips/%s/%d", k.kind, k.sample)
	group, err := s.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout %s: %w", label, err)
	}
	pl, err := s.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: []hal.BindGroupLayout{group},
	})
	if err != nil {
		s.device.DestroyBindGroupLayout(group)
		return nil, fmt.Errorf("create pipeline layout %s: %w", label, err)
	}
	l := &layout{group: group, pipeline: pl}
	s.layouts[k] = l
	return l, nil
}

// module returns the shader module of k, compiling it on first use.
func (s *Sink) module(k shader.Key) (hal.ShaderModule, error) {
	if m, ok := s.modules[k]; ok {
		return m, nil
	}
	m, err := s.shaders.Module(s.device, k)
	if err != nil {
		return nil, err
	}
	s.modules[k] = m
	return m, nil
}

// pipelineFor returns the render pipeline of k, creating it on first use.
func (s *Sink) pipelineFor(k pipelineKey) (hal.RenderPipeline, *layout, error) {
	l, err := s.layoutFor(layoutKey{kind: k.program.Kind, sample: k.sample})
	if err != nil {
		return nil, nil, err
	}
	if p, ok := s.pipelines[k]; ok {
		return p, l, nil
	}
	mod, err := s.module(k.program)
	if err != nil {
		return nil, nil, err
	}

	target := gputypes.ColorTargetState{
		Format:    s.opts.format,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	if k.blending {
		blend := k.blend
		target.Blend = &blend
	}
	vertexLayouts := render.VertexLayouts(render.Rasterize)
	if k.program.Kind == shader.Raytrace {
		vertexLayouts = render.VertexLayouts(render.Raytrace)
	}
	p, err := s.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "hips/" + k.program.String(),
		Layout: l.pipeline,
		Vertex: hal.VertexState{
			Module:     mod,
			EntryPoint: "vs_main",
			Buffers:    vertexLayouts,
		},
		Fragment: &hal.FragmentState{
			Module:     mod,
			EntryPoint: "fs_main",
			Targets:    []gputypes.ColorTargetState{target},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  k.cull,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create pipeline %s: %w", k.program, err)
	}
	s.pipelines[k] = p
	s.logger.Debug("wgpu: pipeline created",
		slog.String("program", k.program.String()),
		slog.Bool("blending", k.blending),
		slog.Any("cull", k.cull))
	return p, l, nil
}
