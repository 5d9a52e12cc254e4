package hips

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/hips/tile"
)

// LayerMeta is the per-layer display state.
type LayerMeta struct {
	Color   Color
	Opacity float32
	Visible bool
	Blend   BlendConfig
}

// DefaultLayerMeta returns a visible, opaque, colored layer.
func DefaultLayerMeta() LayerMeta {
	return LayerMeta{Color: Colored(), Opacity: 1, Visible: true, Blend: DefaultBlend()}
}

// Validate checks m against the format of the layer's survey.
func (m LayerMeta) Validate(f tile.Format) error {
	if m.Opacity < 0 || m.Opacity > 1 {
		return fmt.Errorf("opacity %v outside [0, 1]", m.Opacity)
	}
	if err := m.Color.Validate(f); err != nil {
		return err
	}
	return m.Blend.Validate()
}

// LayerSpec declares one layer: its name, the survey it shows and how.
type LayerSpec struct {
	Layer  string
	Survey tile.Config
	Meta   LayerMeta
}

// NormalizeLayer returns the canonical form of a layer name: trimmed and in
// Unicode NFC, so visually identical names compare equal.
func NormalizeLayer(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
