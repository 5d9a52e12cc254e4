package wgpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hips"
	"github.com/gogpu/hips/shader"
	"github.com/gogpu/hips/tilecache"
)

// survey holds the GPU resources of one survey.
type survey struct {
	atlas    *atlas
	vertices *buffer
	indices  *buffer
	lut      lutTexture
}

// frameResources are released once the submission using them completes.
type frameResources struct {
	submission uint64
	cmd        hal.CommandBuffer
	groups     []hal.BindGroup
	retired    []func()
}

// Stats counts the resources a Sink holds.
type Stats struct {
	Atlases     int
	Pipelines   int
	Frames      uint64
	Draws       int
	Pending     int
	LastSubmit  uint64
	BufferBytes uint64
}

// Sink is a hips.DrawSink recording into a wgpu HAL render pass.
//
// A Sink is not safe for concurrent use.
type Sink struct {
	device  hal.Device
	queue   hal.Queue
	opts    options
	shaders *shader.Manager
	logger  *slog.Logger

	layouts   map[layoutKey]*layout
	modules   map[shader.Key]hal.ShaderModule
	pipelines map[pipelineKey]hal.RenderPipeline

	surveys  map[string]*survey
	uniforms map[string]*buffer
	grid     struct{ vertices, indices *buffer }

	encoder  hal.CommandEncoder
	pass     hal.RenderPassEncoder
	groups   []hal.BindGroup
	retired  []func()
	blending bool

	pending []frameResources
	frames  uint64
	draws   int
	last    uint64
	closed  bool
}

var _ hips.DrawSink = (*Sink)(nil)

// New returns a Sink drawing on device and uploading through queue.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Sink, error) {
	if device == nil || queue == nil {
		return nil, errors.New("wgpu: nil device or queue")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = hips.Logger()
	}
	if o.shaders == nil {
		o.shaders = shader.NewManager()
	}
	s := &Sink{
		device:    device,
		queue:     queue,
		opts:      o,
		shaders:   o.shaders,
		logger:    o.logger,
		layouts:   make(map[layoutKey]*layout),
		modules:   make(map[shader.Key]hal.ShaderModule),
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
		surveys:   make(map[string]*survey),
		uniforms:  make(map[string]*buffer),
	}
	s.grid.vertices = newBuffer("hips/grid/vertices", gputypes.BufferUsageVertex)
	s.grid.indices = newBuffer("hips/grid/indices", gputypes.BufferUsageIndex)
	return s, nil
}

// BeginFrame opens a render pass on target. The target is cleared to
// clearColor when it is not nil and loaded otherwise.
func (s *Sink) BeginFrame(target hal.TextureView, clearColor *gputypes.Color) error {
	if s.closed {
		return ErrClosed
	}
	if s.encoder != nil {
		return ErrFrameInProgress
	}
	s.release(false)

	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "hips/frame"})
	if err != nil {
		return fmt.Errorf("wgpu: create encoder: %w", err)
	}
	if err := encoder.BeginEncoding("hips/frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	att := hal.RenderPassColorAttachment{
		View:    target,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	if clearColor != nil {
		att.LoadOp = gputypes.LoadOpClear
		att.ClearValue = *clearColor
	}
	s.encoder = encoder
	s.pass = encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "hips/layers",
		ColorAttachments: []hal.RenderPassColorAttachment{att},
	})
	s.draws = 0
	return nil
}

// EndFrame ends the render pass and submits it. It returns the submission
// index.
func (s *Sink) EndFrame() (uint64, error) {
	if s.encoder == nil {
		return 0, ErrNoFrame
	}
	s.pass.End()
	cmd, err := s.encoder.EndEncoding()
	s.pass, s.encoder = nil, nil
	res := frameResources{cmd: cmd, groups: s.groups, retired: s.retired}
	s.groups, s.retired = nil, nil
	if err != nil {
		res.cmd = nil
		s.free(res)
		return 0, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	idx, err := s.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		s.free(res)
		return 0, fmt.Errorf("wgpu: submit: %w", err)
	}
	res.submission = idx
	s.pending = append(s.pending, res)
	s.frames++
	s.last = idx
	return idx, nil
}

// DiscardFrame abandons the frame in progress.
func (s *Sink) DiscardFrame() {
	if s.encoder == nil {
		return
	}
	s.pass.End()
	s.encoder.DiscardEncoding()
	s.pass, s.encoder = nil, nil
	s.free(frameResources{groups: s.groups, retired: s.retired})
	s.groups, s.retired = nil, nil
}

// EnableBlending implements hips.DrawSink.
func (s *Sink) EnableBlending(enabled bool) {
	s.blending = enabled
}

// AtlasUploader implements hips.DrawSink. The atlas texture is created on
// first use and recreated when desc changes.
func (s *Sink) AtlasUploader(desc hips.AtlasDesc) (tilecache.Uploader, error) {
	if s.closed {
		return nil, ErrClosed
	}
	sv := s.survey(desc.URL)
	if sv.atlas != nil && sv.atlas.desc == desc {
		return sv.atlas.pages, nil
	}
	a, err := newAtlas(s.device, s.queue, desc)
	if err != nil {
		return nil, fmt.Errorf("wgpu: atlas of %s: %w", desc.URL, err)
	}
	if old := sv.atlas; old != nil {
		s.logger.Info("wgpu: atlas recreated", slog.String("survey", desc.URL))
		s.retire(func() { old.destroy(s.device) })
	}
	sv.atlas = a
	return a.pages, nil
}

// DrawRaster implements hips.DrawSink.
func (s *Sink) DrawRaster(call hips.RasterCall) error {
	sv, err := s.drawable(call.URL)
	if err != nil {
		return err
	}
	if call.GeometryChanged || sv.vertices.buf == nil {
		if err := sv.vertices.write(s.device, s.queue, call.Vertices, s.retire); err != nil {
			return err
		}
		if err := sv.indices.write(s.device, s.queue, call.Indices, s.retire); err != nil {
			return err
		}
	}
	if call.IndexCount == 0 {
		return nil
	}
	return s.draw(&call.DrawCall, sv, nil, sv.vertices, sv.indices, call.IndexCount)
}

// DrawRaytrace implements hips.DrawSink.
func (s *Sink) DrawRaytrace(call hips.RaytraceCall) error {
	sv, err := s.drawable(call.URL)
	if err != nil {
		return err
	}
	if call.GeometryChanged || s.grid.vertices.buf == nil {
		if err := s.grid.vertices.write(s.device, s.queue, call.Vertices, s.retire); err != nil {
			return err
		}
		if err := s.grid.indices.write(s.device, s.queue, call.Indices, s.retire); err != nil {
			return err
		}
	}
	if call.LUTChanged || sv.lut.texture == nil {
		if err := sv.lut.write(s.device, s.queue, "hips/lut/"+call.URL, call.LUT, s.retire); err != nil {
			return fmt.Errorf("wgpu: %w", err)
		}
	}
	if call.IndexCount == 0 {
		return nil
	}
	return s.draw(&call.DrawCall, sv, sv.lut.view, s.grid.vertices, s.grid.indices, call.IndexCount)
}

func (s *Sink) drawable(url string) (*survey, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.pass == nil {
		return nil, ErrNoFrame
	}
	sv, ok := s.surveys[url]
	if !ok || sv.atlas == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAtlas, url)
	}
	return sv, nil
}

func (s *Sink) draw(call *hips.DrawCall, sv *survey, lut hal.TextureView, vb, ib *buffer, count int) error {
	sample := sampleType(sv.atlas.desc.Format)
	pipeline, l, err := s.pipelineFor(pipelineKey{
		program:  call.Shader,
		sample:   sample,
		blending: s.blending,
		blend:    call.Blend,
		cull:     call.Cull,
	})
	if err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}

	ub, ok := s.uniforms[call.Layer]
	if !ok {
		ub = newBuffer("hips/globals/"+call.Layer, gputypes.BufferUsageUniform)
		s.uniforms[call.Layer] = ub
	}
	if err := ub.write(s.device, s.queue, call.Globals.Bytes(), s.retire); err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.buf.NativeHandle(), Size: shader.GlobalsSize}},
		{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: sv.atlas.view.NativeHandle()}},
	}
	if lut != nil {
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: 2, Resource: gputypes.TextureViewBinding{TextureView: lut.NativeHandle()},
		})
	}
	group, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "hips/" + call.Layer,
		Layout:  l.group,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("wgpu: bind group of %s: %w", call.Layer, err)
	}
	s.groups = append(s.groups, group)

	s.pass.SetPipeline(pipeline)
	s.pass.SetBindGroup(0, group, nil)
	s.pass.SetVertexBuffer(0, vb.buf, 0)
	s.pass.SetIndexBuffer(ib.buf, gputypes.IndexFormatUint16, 0)
	s.pass.DrawIndexed(uint32(count), 1, 0, 0, 0)
	s.draws++
	return nil
}

func (s *Sink) survey(url string) *survey {
	sv, ok := s.surveys[url]
	if !ok {
		sv = &survey{
			vertices: newBuffer("hips/mesh/vertices/"+url, gputypes.BufferUsageVertex),
			indices:  newBuffer("hips/mesh/indices/"+url, gputypes.BufferUsageIndex),
		}
		s.surveys[url] = sv
	}
	return sv
}

// Forget releases the resources of a survey no longer drawn.
func (s *Sink) Forget(url string) {
	sv, ok := s.surveys[url]
	if !ok {
		return
	}
	if sv.atlas != nil {
		sv.atlas.destroy(s.device)
	}
	sv.vertices.destroy(s.device)
	sv.indices.destroy(s.device)
	sv.lut.destroy(s.device)
	delete(s.surveys, url)
}

// release frees the resources of completed submissions, or of all of them
// when all is set.
func (s *Sink) release(all bool) {
	done := s.queue.PollCompleted()
	kept := s.pending[:0]
	for _, f := range s.pending {
		if !all && f.submission > done {
			kept = append(kept, f)
			continue
		}
		s.free(f)
	}
	clear(s.pending[len(kept):])
	s.pending = kept
}

// retire defers destroy until the work recorded so far has completed.
func (s *Sink) retire(destroy func()) {
	s.retired = append(s.retired, destroy)
}

func (s *Sink) free(f frameResources) {
	for _, g := range f.groups {
		s.device.DestroyBindGroup(g)
	}
	if f.cmd != nil {
		s.device.FreeCommandBuffer(f.cmd)
	}
	for _, destroy := range f.retired {
		destroy()
	}
}

// Stats returns resource counts.
func (s *Sink) Stats() Stats {
	st := Stats{
		Pipelines:  len(s.pipelines),
		Frames:     s.frames,
		Draws:      s.draws,
		Pending:    len(s.pending),
		LastSubmit: s.last,
	}
	for _, sv := range s.surveys {
		if sv.atlas != nil {
			st.Atlases++
		}
		st.BufferBytes += sv.vertices.size + sv.indices.size
	}
	st.BufferBytes += s.grid.vertices.size + s.grid.indices.size
	for _, ub := range s.uniforms {
		st.BufferBytes += ub.size
	}
	return st
}

// Close waits for the device and releases every resource.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.DiscardFrame()
	err := s.device.WaitIdle()
	s.release(true)
	s.free(frameResources{retired: s.retired})
	s.retired = nil
	for url := range s.surveys {
		s.Forget(url)
	}
	s.grid.vertices.destroy(s.device)
	s.grid.indices.destroy(s.device)
	for _, ub := range s.uniforms {
		ub.destroy(s.device)
	}
	for _, p := range s.pipelines {
		s.device.DestroyRenderPipeline(p)
	}
	for _, m := range s.modules {
		s.device.DestroyShaderModule(m)
	}
	for _, l := range s.layouts {
		s.device.DestroyPipelineLayout(l.pipeline)
		s.device.DestroyBindGroupLayout(l.group)
	}
	s.closed = true
	if err != nil {
		return fmt.Errorf("wgpu: wait idle: %w", err)
	}
	return nil
}
