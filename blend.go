package hips

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// BlendConfig is the color blend equation of a layer over the layers below.
// Alpha always accumulates.
type BlendConfig struct {
	SrcColor gputypes.BlendFactor
	DstColor gputypes.BlendFactor
	Op       gputypes.BlendOperation
}

// DefaultBlend is source-over with straight alpha.
func DefaultBlend() BlendConfig {
	return BlendConfig{
		SrcColor: gputypes.BlendFactorSrcAlpha,
		DstColor: gputypes.BlendFactorOneMinusSrcAlpha,
		Op:       gputypes.BlendOperationAdd,
	}
}

// AdditiveBlend adds the layer to the layers below.
func AdditiveBlend() BlendConfig {
	return BlendConfig{
		SrcColor: gputypes.BlendFactorSrcAlpha,
		DstColor: gputypes.BlendFactorOne,
		Op:       gputypes.BlendOperationAdd,
	}
}

// State returns the GPU blend state.
func (b BlendConfig) State() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: b.SrcColor,
			DstFactor: b.DstColor,
			Operation: b.Op,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

// Validate reports whether every field is set.
func (b BlendConfig) Validate() error {
	if b.SrcColor == gputypes.BlendFactorUndefined || b.DstColor == gputypes.BlendFactorUndefined {
		return fmt.Errorf("undefined blend factor")
	}
	if b.Op == gputypes.BlendOperationUndefined {
		return fmt.Errorf("undefined blend operation")
	}
	return nil
}
