package shader

import (
	"fmt"

	"github.com/gogpu/hips/tile"
)

// Kind is the way a layer is drawn.
type Kind int

const (
	// Raster draws tessellated cells.
	Raster Kind = iota

	// Raytrace draws a screen-covering grid and resolves cells per fragment.
	Raytrace
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Raster:
		return "Raster"
	case Raytrace:
		return "Raytrace"
	default:
		return "Unknown"
	}
}

// ColorMode is how texels become colors.
type ColorMode int

const (
	// Colored samples RGBA texels as they are.
	Colored ColorMode = iota

	// Grayscale2Colormap maps a scalar through a two-color ramp.
	Grayscale2Colormap

	// Grayscale2Color multiplies a tint by a scalar.
	Grayscale2Color
)

// String returns the color mode name.
func (c ColorMode) String() string {
	switch c {
	case Colored:
		return "Colored"
	case Grayscale2Colormap:
		return "Grayscale2Colormap"
	case Grayscale2Color:
		return "Grayscale2Color"
	default:
		return "Unknown"
	}
}

// Transfer is the function applied to normalized scalar values before
// coloring.
type Transfer int

const (
	Linear Transfer = iota
	Sqrt
	Log
	Pow2
)

// String returns the transfer name.
func (t Transfer) String() string {
	switch t {
	case Linear:
		return "linear"
	case Sqrt:
		return "sqrt"
	case Log:
		return "log"
	case Pow2:
		return "pow2"
	default:
		return "unknown"
	}
}

// ParseTransfer returns the transfer named s.
func ParseTransfer(s string) (Transfer, error) {
	for t := Linear; t <= Pow2; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return Linear, fmt.Errorf("%w: %q", ErrUnknownTransfer, s)
}

// Key selects one program.
type Key struct {
	Kind   Kind
	Color  ColorMode
	Sample tile.SampleType

	// Projection is the projection name, used by Raytrace only.
	Projection string
}

// normalized drops fields that do not affect the generated source.
func (k Key) normalized() Key {
	if k.Kind == Raster {
		k.Projection = ""
	}
	return k
}

// String returns a label suitable for GPU debug names.
func (k Key) String() string {
	s := fmt.Sprintf("%s/%s/%s", k.Kind, k.Color, k.Sample)
	if k.Kind == Raytrace {
		s += "/" + k.Projection
	}
	return s
}

// Validate reports whether the key names a program this package can
// generate.
func (k Key) Validate() error {
	if k.Kind != Raster && k.Kind != Raytrace {
		return fmt.Errorf("%w: kind %d", ErrUnsupportedVariant, int(k.Kind))
	}
	if k.Color < Colored || k.Color > Grayscale2Color {
		return fmt.Errorf("%w: color mode %d", ErrUnsupportedVariant, int(k.Color))
	}
	if k.Color == Colored && k.Sample != tile.SampleFloat {
		return fmt.Errorf("%w: colored tiles need float texels, got %s", ErrUnsupportedVariant, k.Sample)
	}
	if _, ok := scalarTypes[k.Sample]; !ok {
		return fmt.Errorf("%w: sample type %d", ErrUnsupportedVariant, int(k.Sample))
	}
	if k.Kind == Raytrace {
		if _, ok := unprojectSources[k.Projection]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownProjection, k.Projection)
		}
	}
	return nil
}
