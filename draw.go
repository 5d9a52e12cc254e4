package hips

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hips/lod"
	"github.com/gogpu/hips/projection"
	"github.com/gogpu/hips/render"
	"github.com/gogpu/hips/shader"
	"github.com/gogpu/hips/tilecache"
	"github.com/gogpu/hips/view"
)

// AtlasDesc describes the texture array backing the atlas of one survey.
type AtlasDesc struct {
	URL      string
	PageSize int
	Pages    int
	Format   gputypes.TextureFormat
}

// DrawCall holds what every layer draw carries.
type DrawCall struct {
	Layer string
	URL   string

	Shader  shader.Key
	Globals shader.Globals
	Blend   gputypes.BlendState
	Cull    gputypes.CullMode
}

// RasterCall draws the tessellated cells of a survey.
type RasterCall struct {
	DrawCall

	// Vertices use render.RasterLayout. The slices are owned by the
	// collection and valid until the next Draw.
	Vertices   []byte
	Indices    []byte
	IndexCount int

	// GeometryChanged is true when the mesh was rebuilt since the previous
	// raster call for this survey.
	GeometryChanged bool
}

// RaytraceCall draws the screen-covering grid of the ray tracer.
type RaytraceCall struct {
	DrawCall

	// Vertices use render.RaytraceLayout.
	Vertices   []byte
	Indices    []byte
	IndexCount int

	// GeometryChanged is true when the grid was rebuilt since the previous
	// ray-trace frame.
	GeometryChanged bool

	// LUT has one render.LUTEntryStride entry per cell at LUTDepth.
	LUT        []byte
	LUTDepth   uint8
	LUTChanged bool
}

// DrawSink receives the GPU work of a frame. Every layer draw happens
// between EnableBlending(true) and EnableBlending(false).
type DrawSink interface {
	EnableBlending(enabled bool)

	// AtlasUploader returns where the dirty atlas regions of a survey go.
	// It is called once per survey and frame, before the first draw of
	// that survey.
	AtlasUploader(desc AtlasDesc) (tilecache.Uploader, error)

	DrawRaytrace(call RaytraceCall) error
	DrawRaster(call RasterCall) error
}

// Draw renders every visible layer in order with proj.
//
// The drawing mode is chosen once for the whole frame. The first layer
// drawn replaces the framebuffer, so it is drawn even with zero opacity.
// Layers whose survey is not ready are skipped. A sink error stops the
// frame and is returned.
func (c *Collection) Draw(cam *view.Camera, proj projection.Projection, sink DrawSink) error {
	if proj == nil {
		proj = c.proj
	}
	if c.rayTracer.SetProjection(proj) {
		c.logger().Debug("hips: ray tracer rebuilt", slog.String("projection", proj.Name()))
	}
	c.proj = proj

	frame := c.modes.Next(c.rayTracer.IsRendering(proj, cam))
	if frame.Mode != c.modes.Past() {
		c.logger().Debug("hips: drawing mode switched",
			slog.String("from", c.modes.Past().String()),
			slog.String("to", frame.Mode.String()))
	}

	c.frames++
	sink.EnableBlending(true)
	defer func() {
		sink.EnableBlending(false)
		c.modes.Commit()
	}()

	if c.rayTracer.Builds() != c.rtBuilds {
		c.rtVertices = c.rayTracer.VertexBytes()
		c.rtIndices = c.rayTracer.IndexBytes()
		c.rtBuilds = c.rayTracer.Builds()
		c.rtDirty = true
	}
	prepared := make(map[string]bool)
	first := true
	for _, layer := range c.layers {
		meta := c.meta[layer]
		if !meta.Visible {
			continue
		}
		if !first && meta.Opacity == 0 {
			continue
		}
		url := c.urls[layer]
		s := c.surveys[url]
		if !s.IsReady() {
			continue
		}

		if !prepared[url] {
			if err := c.prepare(s, frame, proj, cam, sink); err != nil {
				c.logger().Warn("hips: atlas upload failed",
					slog.String("survey", url), slog.String("error", err.Error()))
				return fmt.Errorf("hips: upload atlas of %s: %w", url, err)
			}
			prepared[url] = true
		}

		call := DrawCall{
			Layer:   layer,
			URL:     url,
			Globals: c.globals(s, meta, frame.Mode, proj, cam),
			Blend:   meta.Blend.State(),
			Cull:    render.CullMode(frame.Mode, s.cfg.LongitudeReversed),
		}
		if first {
			call.Blend = gputypes.BlendStateReplace()
			first = false
		}

		var err error
		switch frame.Mode {
		case render.Raytrace:
			call.Shader = meta.Color.ShaderKey(shader.Raytrace, s.cfg.Format, proj.Name())
			err = sink.DrawRaytrace(RaytraceCall{
				DrawCall:        call,
				Vertices:        c.rtVertices,
				Indices:         c.rtIndices,
				IndexCount:      len(c.rayTracer.Indices()),
				GeometryChanged: c.rtDirty,
				LUT:             s.lutBytes,
				LUTDepth:        s.lut.Depth(),
				LUTChanged:      s.lutDirty,
			})
			if err == nil {
				c.rtDirty = false
				s.lutDirty = false
			}
		default:
			call.Shader = meta.Color.ShaderKey(shader.Raster, s.cfg.Format, proj.Name())
			err = sink.DrawRaster(RasterCall{
				DrawCall:        call,
				Vertices:        s.vertices,
				Indices:         s.indices,
				IndexCount:      len(s.mesh.Indices),
				GeometryChanged: s.meshDirty,
			})
			if err == nil {
				s.meshDirty = false
			}
		}
		if err != nil {
			c.logger().Warn("hips: draw failed",
				slog.String("layer", layer), slog.String("error", err.Error()))
			return fmt.Errorf("hips: draw layer %q: %w", layer, err)
		}
	}
	return nil
}

// prepare uploads the atlas of s and rebuilds the geometry the frame needs.
func (c *Collection) prepare(s *Survey, frame render.Frame, proj projection.Projection, cam *view.Camera, sink DrawSink) error {
	cc := s.cache.Config()
	u, err := sink.AtlasUploader(AtlasDesc{
		URL:      s.cfg.URL,
		PageSize: cc.PageSize,
		Pages:    cc.Pages,
		Format:   cc.Format.TextureFormat(),
	})
	if err != nil {
		return err
	}
	if err := s.cache.Flush(u); err != nil {
		return err
	}

	changed := s.cache.TakeChanged()
	// Geometry kept while the survey was not drawn may be out of date.
	skipped := s.prepared != c.frames-1
	s.prepared = c.frames
	motion := lod.MotionFor(s.view.LastAction())

	switch frame.Mode {
	case render.Raytrace:
		if s.lutStale || changed || skipped || s.view.NewCells() {
			depth := render.LUTDepth(s.view.Depth())
			pairs := lod.Select(motion, render.LUTCells(depth), s.cache)
			s.lut.Build(depth, pairs, s.cache)
			s.lutBytes = s.lut.Bytes()
			s.lutStale = false
			s.lutDirty = true
		}
	default:
		s.lutStale = true
		if render.NeedsRebuild(s.view.NewCells(), changed, frame.SwitchFromRaytrace) || skipped {
			cells := s.view.Cells()
			s.mesh.Build(cells, lod.Select(motion, cells, s.cache), s.cache, proj, cam)
			s.vertices = s.mesh.VertexBytes()
			s.indices = s.mesh.IndexBytes()
			s.meshDirty = true
			c.logger().Debug("hips: raster mesh rebuilt",
				slog.String("survey", s.cfg.URL),
				slog.Int("cells", s.mesh.Cells()),
				slog.Int("culled", s.mesh.Culled()))
		}
	}
	return nil
}

// globals fills the uniforms of one layer draw.
func (c *Collection) globals(s *Survey, meta LayerMeta, mode render.Mode, proj projection.Projection, cam *view.Camera) shader.Globals {
	g := shader.Globals{
		CurrentTime:   float32(c.opts.clock().Sub(s.cache.Epoch())) / float32(time.Millisecond),
		Opacity:       meta.Opacity,
		BlendDuration: float32(c.opts.blendDuration) / float32(time.Millisecond),
		LUTDepth:      float32(s.lut.Depth()),
	}
	switch mode {
	case render.Raytrace:
		b := projection.CameraBasis(cam)
		for i, col := range [3][3]float64{b.East, b.North, b.Forward} {
			g.Matrix[i*4+0] = float32(col[0])
			g.Matrix[i*4+1] = float32(col[1])
			g.Matrix[i*4+2] = float32(col[2])
		}
		g.Matrix[15] = 1
		if sx, sy, ok := projection.Scale(proj, cam); ok {
			g.Screen = [4]float32{float32(sx), float32(sy), 0, 0}
		}
	default:
		if m, ok := projection.ClipMatrix(proj, cam); ok {
			g.Matrix = m
		}
	}
	meta.Color.apply(&g, s.cfg.Format, s.cfg.FITS)
	return g
}
