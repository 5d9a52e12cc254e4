package shader

import (
	"encoding/binary"
	"math"
)

// GlobalsSize is the size in bytes of the uniform block.
const GlobalsSize = 160

// Globals is the uniform block shared by both programs.
type Globals struct {
	// Matrix is model_to_clip for Raster and the camera frame (east, north,
	// forward columns) for Raytrace. Column major.
	Matrix [16]float32

	// CurrentTime is in milliseconds since the atlas epoch.
	CurrentTime float32
	Opacity     float32

	// BlendDuration is the cross-fade length in milliseconds.
	BlendDuration float32
	LUTDepth      float32

	// Screen holds the NDC to tangent-plane scale in X and Y.
	Screen [4]float32

	Tint [4]float32
	Low  [4]float32
	High [4]float32

	// ColorParams holds scale, offset and transfer.
	ColorParams [4]float32
}

// Bytes encodes g in std140 layout.
func (g *Globals) Bytes() []byte {
	buf := make([]byte, GlobalsSize)
	off := 0
	put := func(fs ...float32) {
		for _, f := range fs {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	put(g.Matrix[:]...)
	put(g.CurrentTime, g.Opacity, g.BlendDuration, g.LUTDepth)
	put(g.Screen[:]...)
	put(g.Tint[:]...)
	put(g.Low[:]...)
	put(g.High[:]...)
	put(g.ColorParams[:]...)
	return buf
}
