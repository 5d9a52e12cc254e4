package tile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Sentinel errors for the tile package.
var (
	// ErrSizeMismatch is returned when the number of values does not match
	// the tile size.
	ErrSizeMismatch = errors.New("tile: value count does not match tile size")

	// ErrFormatMismatch is returned when a constructor is used with a format
	// it cannot produce.
	ErrFormatMismatch = errors.New("tile: format mismatch")
)

// FITSMeta holds the scaling parameters of FITS tiles.
// Physical values are BScale*raw + BZero. Raw values equal to Blank are
// undefined.
type FITSMeta struct {
	BScale float32
	BZero  float32
	Blank  float32
}

// DefaultFITSMeta returns the identity scaling with a NaN blank value.
func DefaultFITSMeta() FITSMeta {
	return FITSMeta{BScale: 1, BZero: 0, Blank: float32(math.NaN())}
}

// Payload is a decoded tile, laid out as the texels of its atlas slot.
//
// Data holds Size rows of Size texels. Rows follow the local Y axis of the
// tile cell and columns its local X axis. Multi-byte values are little
// endian.
type Payload struct {
	Format Format
	Size   int
	Data   []byte

	// FITS is meaningful only for FITS formats.
	FITS FITSMeta
}

// FromImage converts a decoded PNG or JPEG tile into a payload of the given
// color format, rescaling it to size x size texels when needed.
func FromImage(img image.Image, size int, f Format) (Payload, error) {
	if !f.IsColor() {
		return Payload{}, fmt.Errorf("%w: %s is not a color format", ErrFormatMismatch, f)
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	if f == FormatRGB8 {
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 0xff
		}
	}
	return Payload{Format: f, Size: size, Data: dst.Pix}, nil
}

// FromFloat32 builds an R32F payload from size*size values.
func FromFloat32(size int, values []float32, meta FITSMeta) (Payload, error) {
	if len(values) != size*size {
		return Payload{}, ErrSizeMismatch
	}
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(v))
	}
	return Payload{Format: FormatR32F, Size: size, Data: data, FITS: meta}, nil
}

// FromInt32 builds an R32I payload from size*size values.
func FromInt32(size int, values []int32, meta FITSMeta) (Payload, error) {
	if len(values) != size*size {
		return Payload{}, ErrSizeMismatch
	}
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[4*i:], uint32(v))
	}
	return Payload{Format: FormatR32I, Size: size, Data: data, FITS: meta}, nil
}

// FromInt16 builds an R16I payload from size*size values.
func FromInt16(size int, values []int16, meta FITSMeta) (Payload, error) {
	if len(values) != size*size {
		return Payload{}, ErrSizeMismatch
	}
	data := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(v))
	}
	return Payload{Format: FormatR16I, Size: size, Data: data, FITS: meta}, nil
}

// FromUint8 builds an R8UI payload from size*size values.
func FromUint8(size int, values []uint8, meta FITSMeta) (Payload, error) {
	if len(values) != size*size {
		return Payload{}, ErrSizeMismatch
	}
	data := make([]byte, len(values))
	copy(data, values)
	return Payload{Format: FormatR8UI, Size: size, Data: data, FITS: meta}, nil
}

// Placeholder returns the default tile pushed for a missing cell.
// Color tiles are fully transparent, FITS tiles are zero.
func Placeholder(f Format, size int) Payload {
	p := Payload{
		Format: f,
		Size:   size,
		Data:   make([]byte, size*size*f.BytesPerTexel()),
	}
	if f.IsFITS() {
		p.FITS = DefaultFITSMeta()
	}
	return p
}

// Texel returns the value stored at column x, row y.
// It panics if the position is outside the tile.
func (p Payload) Texel(x, y int) Pixel {
	if x < 0 || y < 0 || x >= p.Size || y >= p.Size {
		panic(fmt.Sprintf("tile: texel (%d, %d) outside a %d texel tile", x, y, p.Size))
	}
	return DecodeTexel(p.Format, p.Data[(y*p.Size+x)*p.Format.BytesPerTexel():])
}

// DecodeTexel decodes the texel at the start of b.
func DecodeTexel(f Format, b []byte) Pixel {
	px := Pixel{Format: f}
	switch f {
	case FormatR32F:
		px.Value = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case FormatR32I:
		px.Value = float64(int32(binary.LittleEndian.Uint32(b)))
	case FormatR16I:
		px.Value = float64(int16(binary.LittleEndian.Uint16(b)))
	case FormatR8UI:
		px.Value = float64(b[0])
	default:
		px.Color = color.RGBA{R: b[0], G: b[1], B: b[2], A: b[3]}
	}
	return px
}
