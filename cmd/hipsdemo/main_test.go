package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/hips/backend/wgpu"
	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/shader"
	"github.com/gogpu/hips/tile"
)

func TestSyntheticColorTile(t *testing.T) {
	sky := synthetic{}
	cfg := tile.DefaultConfig(colorURL)
	cfg.TileSize = 16
	p, err := sky.fetch(context.Background(), tile.Key{URL: colorURL, Cell: healpix.Cell{Depth: 1, Index: 17}}, cfg)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if p.Format != tile.FormatRGBA8 || p.Size != 16 || len(p.Data) != 16*16*4 {
		t.Fatalf("payload = %v %d %d bytes", p.Format, p.Size, len(p.Data))
	}
	// Cell 17 at depth 1 lies in base cell 4.
	want := scale(baseColors[4], 1/1.15)
	got := p.Data[:3]
	for i, w := range []uint8{want.R, want.G, want.B} {
		if d := int(got[i]) - int(w); d < -2 || d > 2 {
			t.Errorf("corner texel = %v, want %v", got, want)
			break
		}
	}
}

func TestSyntheticIntensityTile(t *testing.T) {
	cfg := tile.DefaultConfig(intensityURL)
	cfg.TileSize = 8
	cfg.Format = tile.FormatR32F
	p, err := synthetic{}.fetch(context.Background(), tile.Key{URL: intensityURL, Cell: healpix.Cell{Index: 2}}, cfg)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if p.Format != tile.FormatR32F || len(p.Data) != 8*8*4 {
		t.Fatalf("payload = %v, %d bytes", p.Format, len(p.Data))
	}
	for y := range 8 {
		for x := range 8 {
			v := p.Texel(x, y).Physical(p.FITS)
			if v < 0 || v > 1 {
				t.Fatalf("texel (%d,%d) = %v outside [0, 1]", x, y, v)
			}
		}
	}
}

func TestSyntheticHoles(t *testing.T) {
	sky := synthetic{holes: 2}
	cfg := tile.DefaultConfig(colorURL)
	cfg.TileSize = 8

	_, err := sky.fetch(context.Background(), tile.Key{URL: colorURL, Cell: healpix.Cell{Depth: 2, Index: 10}}, cfg)
	if !errors.Is(err, errNoTile) {
		t.Errorf("cell 10 at depth 2 = %v, want errNoTile", err)
	}
	if _, err := sky.fetch(context.Background(), tile.Key{URL: colorURL, Cell: healpix.Cell{Depth: 1, Index: 10}}, cfg); err != nil {
		t.Errorf("cell 10 at depth 1 = %v", err)
	}
}

func TestSyntheticCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sky := synthetic{latency: time.Hour}
	_, err := sky.fetch(ctx, tile.Key{URL: colorURL}, tile.DefaultConfig(colorURL))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("fetch = %v, want context.Canceled", err)
	}
}

func TestPathPhases(t *testing.T) {
	p := newPath(90)

	c0, a0 := p.at(0)
	if c0.Lon != 0 || a0 != p.aperture {
		t.Errorf("first frame = %v, %v", c0, a0)
	}
	_, pan := p.at(29)
	if pan != p.aperture {
		t.Errorf("aperture changed while panning: %v", pan)
	}
	c, closest := p.at(59)
	if c != p.end() || closest >= p.aperture/10 {
		t.Errorf("end of zoom in = %v, %v", c, closest)
	}
	_, widest := p.at(89)
	if math.Abs(widest-p.widest) > 1e-9 {
		t.Errorf("last aperture = %v, want %v", widest, p.widest)
	}
	if _, a := p.at(1000); a != widest {
		t.Errorf("frames past the end = %v, want %v", a, widest)
	}
}

func TestParseProjection(t *testing.T) {
	for _, name := range []string{"SIN", "tan"} {
		p, err := parseProjection(name)
		if err != nil {
			t.Fatalf("parseProjection(%q): %v", name, err)
		}
		if p.Name() != strings.ToUpper(name) {
			t.Errorf("parseProjection(%q) = %s", name, p.Name())
		}
	}
	if _, err := parseProjection("AIT"); err == nil {
		t.Error("AIT accepted")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "WARN", "json")
	l.Info("hidden")
	l.Warn("shown", slog.Int("n", 1))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"n":1`) {
		t.Errorf("output = %q, want JSON", out)
	}

	buf.Reset()
	newLogger(&buf, "", "").Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("HIPS_TEST_DELAY", "250ms")
	if d := envDuration("HIPS_TEST_DELAY", time.Second); d != 250*time.Millisecond {
		t.Errorf("duration = %v", d)
	}
	t.Setenv("HIPS_TEST_DELAY", "40")
	if d := envDuration("HIPS_TEST_DELAY", time.Second); d != 40*time.Millisecond {
		t.Errorf("milliseconds = %v", d)
	}
	t.Setenv("HIPS_TEST_DELAY", "soon")
	if d := envDuration("HIPS_TEST_DELAY", time.Second); d != time.Second {
		t.Errorf("invalid value = %v, want default", d)
	}
}

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "atlas.png")
	cfg := config{
		width:      320,
		height:     240,
		frames:     12,
		tileSize:   8,
		maxDepth:   3,
		projection: "SIN",
		atlas:      out,
		interval:   time.Millisecond,
		labels:     true,
		backend: []wgpu.Option{wgpu.WithShaderManager(shader.NewManagerWithCompiler(func(string) ([]byte, error) {
			return []byte{0x03, 0x02, 0x23, 0x07}, nil
		}))},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(context.Background(), cfg, logger); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode atlas: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("atlas page = %v, want 64x64", b)
	}
}

func TestRunRejectsBadProjection(t *testing.T) {
	cfg := config{frames: 1, tileSize: 8, projection: "MOL"}
	if err := run(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Error("unknown projection accepted")
	}
}
