package tile

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hips/healpix"
)

func TestFormatTextureFormat(t *testing.T) {
	tests := []struct {
		f      Format
		want   gputypes.TextureFormat
		bytes  int
		sample SampleType
	}{
		{FormatRGBA8, gputypes.TextureFormatRGBA8Unorm, 4, SampleFloat},
		{FormatRGB8, gputypes.TextureFormatRGBA8Unorm, 4, SampleFloat},
		{FormatR32F, gputypes.TextureFormatR32Float, 4, SampleFloat},
		{FormatR32I, gputypes.TextureFormatR32Sint, 4, SampleInt},
		{FormatR16I, gputypes.TextureFormatR16Sint, 2, SampleInt},
		{FormatR8UI, gputypes.TextureFormatR8Uint, 1, SampleUint},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			if got := tt.f.TextureFormat(); got != tt.want {
				t.Errorf("TextureFormat() = %v, want %v", got, tt.want)
			}
			if got := tt.f.BytesPerTexel(); got != tt.bytes {
				t.Errorf("BytesPerTexel() = %d, want %d", got, tt.bytes)
			}
			if got := tt.f.SampleType(); got != tt.sample {
				t.Errorf("SampleType() = %v, want %v", got, tt.sample)
			}
		})
	}
}

func TestFromImageSameSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(2, 5, color.RGBA{R: 10, G: 20, B: 30, A: 40})

	p, err := FromImage(img, 8, FormatRGBA8)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if len(p.Data) != 8*8*4 {
		t.Fatalf("len(Data) = %d, want %d", len(p.Data), 8*8*4)
	}
	got := p.Texel(2, 5).Color
	if got != (color.RGBA{R: 10, G: 20, B: 30, A: 40}) {
		t.Errorf("Texel(2, 5) = %v", got)
	}
}

func TestFromImageRescalesAndWidensRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 0})
		}
	}
	p, err := FromImage(img, 16, FormatRGB8)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if p.Size != 16 || len(p.Data) != 16*16*4 {
		t.Fatalf("size = %d, len = %d", p.Size, len(p.Data))
	}
	if a := p.Texel(7, 7).Color.A; a != 0xff {
		t.Errorf("alpha = %d, want 255", a)
	}
}

func TestFromImageRejectsFITSFormat(t *testing.T) {
	_, err := FromImage(image.NewRGBA(image.Rect(0, 0, 8, 8)), 8, FormatR32F)
	if !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("err = %v, want ErrFormatMismatch", err)
	}
}

func TestFITSConstructors(t *testing.T) {
	meta := FITSMeta{BScale: 2, BZero: 1, Blank: -1}

	f, err := FromFloat32(2, []float32{0, 1.5, 2, 3}, meta)
	if err != nil {
		t.Fatal(err)
	}
	if v := f.Texel(1, 0).Value; v != 1.5 {
		t.Errorf("R32F texel = %g, want 1.5", v)
	}
	if v := f.Texel(1, 0).Physical(f.FITS); v != 4 {
		t.Errorf("physical = %g, want 4", v)
	}

	i32, err := FromInt32(2, []int32{0, 0, -7, 0}, meta)
	if err != nil {
		t.Fatal(err)
	}
	if v := i32.Texel(0, 1).Value; v != -7 {
		t.Errorf("R32I texel = %g, want -7", v)
	}

	i16, err := FromInt16(2, []int16{0, 0, 0, -1}, meta)
	if err != nil {
		t.Fatal(err)
	}
	px := i16.Texel(1, 1)
	if px.Value != -1 || !px.IsBlank(meta) {
		t.Errorf("R16I texel = %g, blank = %v", px.Value, px.IsBlank(meta))
	}

	u8, err := FromUint8(2, []uint8{9, 0, 0, 0}, meta)
	if err != nil {
		t.Fatal(err)
	}
	if v := u8.Texel(0, 0).Value; v != 9 {
		t.Errorf("R8UI texel = %g, want 9", v)
	}

	if _, err := FromFloat32(3, []float32{1}, meta); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("err = %v, want ErrSizeMismatch", err)
	}
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder(FormatR16I, 4)
	if len(p.Data) != 4*4*2 {
		t.Errorf("len(Data) = %d, want 32", len(p.Data))
	}
	if !math.IsNaN(float64(p.FITS.Blank)) || p.FITS.BScale != 1 {
		t.Errorf("FITS = %+v, want default", p.FITS)
	}
	c := Placeholder(FormatRGBA8, 4)
	if c.Texel(3, 3).Color.A != 0 {
		t.Error("color placeholder is not transparent")
	}
}

func TestResolved(t *testing.T) {
	now := time.Unix(100, 0)
	m := Missing(now)
	if m.Status != StatusMissing || !m.RequestedAt.Equal(now) {
		t.Errorf("Missing = %+v", m)
	}
	f := Found(Placeholder(FormatRGBA8, 8), now)
	if f.Status != StatusFound || f.Payload.Size != 8 {
		t.Errorf("Found = %+v", f)
	}
}

func TestKeyPath(t *testing.T) {
	k := Key{URL: "http://alasky/DSS", Cell: healpix.NewCell(8, 123456)}
	if got, want := k.Path(FormatRGB8), "Norder8/Dir120000/Npix123456.jpg"; got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
	if got, want := k.String(), "http://alasky/DSS@8/123456"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Config)
		field string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty url", func(c *Config) { c.URL = "" }, "URL"},
		{"small tile", func(c *Config) { c.TileSize = 4 }, "TileSize"},
		{"odd tile", func(c *Config) { c.TileSize = 100 }, "TileSize"},
		{"deep", func(c *Config) { c.MaxDepth = 30 }, "MaxDepth"},
		{"min above max", func(c *Config) { c.MinDepth = 4 }, "MinDepth"},
		{"format", func(c *Config) { c.Format = Format(42) }, "Format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig("http://survey")
			tt.mod(&c)
			err := c.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}
