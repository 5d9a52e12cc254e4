package projection

import (
	"math"

	"github.com/gogpu/hips/view"
)

// Basis is the camera frame as unit vectors: Forward points at the camera
// center, East and North span the tangent plane there.
type Basis struct {
	East, North, Forward [3]float64
}

// CameraBasis returns the frame of cam.
func CameraBasis(cam *view.Camera) Basis {
	f := cameraFrame(cam.Center())
	return Basis{East: f.east, North: f.north, Forward: f.forward}
}

// Scale returns the factors mapping normalized device coordinates back to
// the tangent plane: x = -X * sx and y = Y * sy. ok is false for
// projections this package does not know.
func Scale(p Projection, cam *view.Camera) (sx, sy float64, ok bool) {
	var half float64
	switch p.(type) {
	case Orthographic, *Orthographic:
		half = math.Sin(math.Min(cam.Aperture()/2, math.Pi/2))
	case Gnomonic, *Gnomonic:
		half = math.Tan(math.Min(cam.Aperture()/2, math.Pi/2-1e-3))
	default:
		return 0, 0, false
	}
	return half, half / aspect(cam), true
}

// ClipMatrix returns the column-major matrix taking a point on the unit
// sphere to clip space, so that the GPU reproduces ToScreen. Points that
// ToScreen rejects fall outside the clip volume. ok is false for
// projections that are not linear in homogeneous coordinates.
func ClipMatrix(p Projection, cam *view.Camera) (m [16]float32, ok bool) {
	sx, sy, ok := Scale(p, cam)
	if !ok {
		return m, false
	}
	b := CameraBasis(cam)

	var rows [4][4]float64
	for i := range 3 {
		rows[0][i] = -b.East[i] / sx
		rows[1][i] = b.North[i] / sy
	}
	switch p.(type) {
	case Gnomonic, *Gnomonic:
		for i := range 3 {
			rows[2][i] = b.Forward[i] / 2
			rows[3][i] = b.Forward[i]
		}
	default:
		for i := range 3 {
			rows[2][i] = b.Forward[i]
		}
		rows[3][3] = 1
	}

	for col := range 4 {
		for row := range 4 {
			m[col*4+row] = float32(rows[row][col])
		}
	}
	return m, true
}
