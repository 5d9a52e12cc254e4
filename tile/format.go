package tile

import "github.com/gogpu/gputypes"

// Format is the storage format of the tiles of a survey.
type Format int

const (
	// FormatRGBA8 is 8-bit RGBA, typically from PNG tiles.
	FormatRGBA8 Format = iota

	// FormatRGB8 is 8-bit RGB, typically from JPEG tiles.
	// Texels are widened to RGBA with opaque alpha in the atlas.
	FormatRGB8

	// FormatR32F is single channel 32-bit float FITS data (BITPIX -32).
	FormatR32F

	// FormatR32I is single channel 32-bit integer FITS data (BITPIX 32).
	FormatR32I

	// FormatR16I is single channel 16-bit integer FITS data (BITPIX 16).
	FormatR16I

	// FormatR8UI is single channel 8-bit unsigned FITS data (BITPIX 8).
	FormatR8UI
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGB8:
		return "RGB8"
	case FormatR32F:
		return "R32F"
	case FormatR32I:
		return "R32I"
	case FormatR16I:
		return "R16I"
	case FormatR8UI:
		return "R8UI"
	default:
		return "Unknown"
	}
}

// TextureFormat returns the GPU format of the atlas pages storing f.
func (f Format) TextureFormat() gputypes.TextureFormat {
	switch f {
	case FormatR32F:
		return gputypes.TextureFormatR32Float
	case FormatR32I:
		return gputypes.TextureFormatR32Sint
	case FormatR16I:
		return gputypes.TextureFormatR16Sint
	case FormatR8UI:
		return gputypes.TextureFormatR8Uint
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// BytesPerTexel returns the size of one atlas texel.
func (f Format) BytesPerTexel() int {
	switch f {
	case FormatR16I:
		return 2
	case FormatR8UI:
		return 1
	default:
		return 4
	}
}

// IsColor reports whether f holds color images rather than raw values.
func (f Format) IsColor() bool {
	return f == FormatRGBA8 || f == FormatRGB8
}

// IsFITS reports whether f holds raw FITS values.
func (f Format) IsFITS() bool {
	return !f.IsColor()
}

// SampleType returns how a shader samples textures in format f.
func (f Format) SampleType() SampleType {
	switch f {
	case FormatR32I, FormatR16I:
		return SampleInt
	case FormatR8UI:
		return SampleUint
	default:
		return SampleFloat
	}
}

// Ext returns the file extension of tiles stored in f.
func (f Format) Ext() string {
	switch f {
	case FormatRGBA8:
		return "png"
	case FormatRGB8:
		return "jpg"
	default:
		return "fits"
	}
}

// SampleType is the texture sample type a shader declares.
type SampleType int

const (
	// SampleFloat samples normalized or float textures.
	SampleFloat SampleType = iota
	// SampleInt samples signed integer textures.
	SampleInt
	// SampleUint samples unsigned integer textures.
	SampleUint
)

// String returns the sample type name.
func (s SampleType) String() string {
	switch s {
	case SampleFloat:
		return "Float"
	case SampleInt:
		return "Int"
	case SampleUint:
		return "Uint"
	default:
		return "Unknown"
	}
}
