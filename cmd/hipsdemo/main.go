// Command hipsdemo flies a camera over a synthetic two-layer sky and renders
// every frame through the wgpu backend on a headless device.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/joho/godotenv"

	"github.com/gogpu/hips"
	"github.com/gogpu/hips/backend/wgpu"
	"github.com/gogpu/hips/internal/statsfeed"
	"github.com/gogpu/hips/projection"
	"github.com/gogpu/hips/resolver"
	"github.com/gogpu/hips/shader"
	"github.com/gogpu/hips/tile"
	"github.com/gogpu/hips/view"
)

const (
	colorURL     = "synthetic://colored"
	intensityURL = "synthetic://intensity"
)

type config struct {
	width, height int
	frames        int
	tileSize      int
	maxDepth      int
	projection    string
	statsAddr     string
	atlas         string
	interval      time.Duration
	latency       time.Duration
	labels        bool

	backend []wgpu.Option
}

func main() {
	_ = godotenv.Load(".env")

	logger := newLogger(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	hips.SetLogger(logger)

	var cfg config
	flag.IntVar(&cfg.width, "width", 800, "viewport width")
	flag.IntVar(&cfg.height, "height", 600, "viewport height")
	flag.IntVar(&cfg.frames, "frames", 180, "frames to render")
	flag.IntVar(&cfg.tileSize, "tile-size", 64, "tile size in texels")
	flag.IntVar(&cfg.maxDepth, "max-depth", 6, "deepest tile depth")
	flag.StringVar(&cfg.projection, "projection", envOr("HIPS_PROJECTION", "SIN"), "projection: SIN or TAN")
	flag.StringVar(&cfg.statsAddr, "stats", os.Getenv("HIPS_STATS_ADDR"), "serve the websocket stats feed on this address")
	flag.StringVar(&cfg.atlas, "atlas", "", "write the first atlas page to this PNG file")
	flag.DurationVar(&cfg.interval, "interval", 16*time.Millisecond, "delay between frames")
	flag.DurationVar(&cfg.latency, "latency", envDuration("HIPS_LATENCY", 20*time.Millisecond), "mean synthetic fetch latency")
	flag.BoolVar(&cfg.labels, "labels", true, "label tiles with their cell")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("hipsdemo failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	proj, err := parseProjection(cfg.projection)
	if err != nil {
		return err
	}
	if cfg.maxDepth < 0 || cfg.maxDepth > 29 {
		return fmt.Errorf("max depth %d outside [0, 29]", cfg.maxDepth)
	}

	c := hips.NewCollection()
	c.SetProjection(proj)
	if _, err := c.SetImageSurveys(layers(cfg)); err != nil {
		return fmt.Errorf("set surveys: %w", err)
	}

	sky := synthetic{holes: 4, latency: cfg.latency, labels: cfg.labels}
	res := resolver.New(ctx, sky.fetcher(), resolver.WithLogger(logger))
	defer res.Close()

	device, queue := &noop.Device{}, &noop.Queue{}
	sink, err := wgpu.New(device, queue, append([]wgpu.Option{wgpu.WithLogger(logger)}, cfg.backend...)...)
	if err != nil {
		return err
	}
	defer sink.Close()

	target, err := renderTarget(device, cfg.width, cfg.height)
	if err != nil {
		return err
	}

	var hub *statsfeed.Hub
	if cfg.statsAddr != "" {
		hub = statsfeed.New(logger)
		srv := serveStats(cfg.statsAddr, hub, logger)
		defer func() {
			hub.Close()
			shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdown)
		}()
	}

	cam := view.NewCamera(cfg.width, cfg.height, math.Pi/3)
	flight := newPath(cfg.frames)
	clearColor := &gputypes.Color{A: 1}
	ticker := time.NewTicker(max(cfg.interval, time.Millisecond))
	defer ticker.Stop()

	start := time.Now()
	for i := range cfg.frames {
		center, aperture := flight.at(i)
		cam.SetCenter(center)
		cam.SetAperture(aperture)
		c.RefreshViews(cam)

		for _, key := range c.TilesToRequest() {
			sv, ok := c.Survey(key.URL)
			if !ok {
				continue
			}
			if err := res.Request(key, sv.Config()); err != nil {
				logger.Warn("request failed", slog.String("tile", key.String()), slog.String("error", err.Error()))
			}
		}
		resolved, available := res.Drain()
		c.SetAvailableTiles(available)
		c.AddResolvedTiles(resolved)

		if hub != nil {
			applyCommands(c, hub, logger)
		}

		if err := sink.BeginFrame(target, clearColor); err != nil {
			return err
		}
		if err := c.Draw(cam, nil, sink); err != nil {
			sink.DiscardFrame()
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if _, err := sink.EndFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		c.ResetFrame()

		st := c.Stats()
		if hub != nil {
			hub.Publish(st)
		}
		if i%30 == 0 {
			logFrame(logger, st, res.Pending())
		}

		select {
		case <-ctx.Done():
			logger.Info("interrupted", slog.Int("frame", i))
			return nil
		case <-ticker.C:
		}
	}

	bs := sink.Stats()
	logger.Info("done",
		slog.Int("frames", cfg.frames),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("pipelines", bs.Pipelines),
		slog.Int("draws", bs.Draws),
		slog.Bool("ready", c.IsReady()),
	)

	if cfg.atlas != "" {
		if err := writeAtlas(cfg.atlas, c, colorURL); err != nil {
			return err
		}
		logger.Info("atlas written", slog.String("path", cfg.atlas))
	}
	return nil
}

// layers declares a colored base survey and a scalar overlay blended on top.
func layers(cfg config) []hips.LayerSpec {
	base := tile.DefaultConfig(colorURL)
	base.TileSize = cfg.tileSize
	base.MaxDepth = uint8(cfg.maxDepth)

	overlay := tile.DefaultConfig(intensityURL)
	overlay.TileSize = cfg.tileSize
	overlay.MaxDepth = uint8(min(cfg.maxDepth, 4))
	overlay.Format = tile.FormatR32F

	cm, _ := hips.LookupColormap("redtemperature")
	meta := hips.DefaultLayerMeta()
	meta.Color = hips.Grayscale2Colormap(cm, shader.Linear, false).WithCuts(0, 1)
	meta.Opacity = 0.4
	meta.Blend = hips.AdditiveBlend()

	return []hips.LayerSpec{
		{Layer: "base", Survey: base, Meta: hips.DefaultLayerMeta()},
		{Layer: "intensity", Survey: overlay, Meta: meta},
	}
}

func parseProjection(name string) (projection.Projection, error) {
	switch strings.ToUpper(name) {
	case "SIN":
		return projection.Orthographic{}, nil
	case "TAN":
		return projection.Gnomonic{}, nil
	default:
		return nil, fmt.Errorf("unknown projection %q", name)
	}
}

func renderTarget(device hal.Device, width, height int) (hal.TextureView, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "hipsdemo/target",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("create render target: %w", err)
	}
	tv, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "hipsdemo/target",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create render target view: %w", err)
	}
	return tv, nil
}

func serveStats(addr string, hub *statsfeed.Hub, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("stats feed listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("stats feed stopped", slog.String("error", err.Error()))
		}
	}()
	return srv
}

func applyCommands(c *hips.Collection, hub *statsfeed.Hub, logger *slog.Logger) {
	for {
		select {
		case cmd := <-hub.Commands():
			if err := cmd.Apply(c); err != nil {
				logger.Warn("layer command rejected", slog.String("layer", cmd.Layer), slog.String("error", err.Error()))
			}
		default:
			return
		}
	}
}

func logFrame(logger *slog.Logger, st hips.Stats, pending int) {
	attrs := []any{
		slog.Uint64("frame", st.Frame),
		slog.String("mode", st.Mode),
		slog.Int("pending", pending),
	}
	for _, sv := range st.Surveys {
		attrs = append(attrs, slog.Group(sv.URL,
			slog.Int("depth", int(sv.Depth)),
			slog.Int("cells", sv.Cells),
			slog.Int("resident", sv.Resident),
		))
	}
	logger.Info("frame", attrs...)
}

// writeAtlas encodes the first page of a color survey's atlas as PNG.
func writeAtlas(path string, c *hips.Collection, url string) error {
	sv, ok := c.Survey(url)
	if !ok {
		return fmt.Errorf("no survey %s", url)
	}
	if !sv.Config().Format.IsColor() {
		return fmt.Errorf("survey %s is not a color survey", url)
	}
	size := sv.Cache().Config().PageSize
	img := &image.RGBA{
		Pix:    sv.Cache().PageData(0),
		Stride: 4 * size,
		Rect:   image.Rect(0, 0, size, size),
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode atlas: %w", err)
	}
	return f.Close()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
