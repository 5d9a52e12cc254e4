package projection

import (
	"math"

	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/view"
)

// orthographicRaytraceAperture is the aperture above which the visible
// hemisphere is ray traced.
const orthographicRaytraceAperture = 110 * math.Pi / 180

// Orthographic is the SIN projection. It shows the hemisphere facing the
// camera.
type Orthographic struct{}

// Name implements Projection.
func (Orthographic) Name() string { return "SIN" }

// ToScreen implements Projection.
func (Orthographic) ToScreen(p healpix.LonLat, cam *view.Camera) (ScreenPos, bool) {
	x, y, z := cameraFrame(cam.Center()).local(p)
	if z < 0 {
		return ScreenPos{}, false
	}
	half := math.Sin(math.Min(cam.Aperture()/2, math.Pi/2))
	return ScreenPos{X: -x / half, Y: y / half * aspect(cam)}, true
}

// RaytracingIsBeneficial implements Projection.
func (Orthographic) RaytracingIsBeneficial(cam *view.Camera) bool {
	return cam.Aperture() > orthographicRaytraceAperture
}
