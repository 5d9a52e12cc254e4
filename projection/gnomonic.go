package projection

import (
	"math"

	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/view"
)

const (
	// gnomonicRaytraceAperture is the aperture above which the tangent plane
	// is too distorted to rasterize.
	gnomonicRaytraceAperture = 90 * math.Pi / 180

	// gnomonicMinZ rejects points too close to the horizon.
	gnomonicMinZ = 1e-6
)

// Gnomonic is the TAN projection onto the plane tangent at the camera
// center. It cannot show points 90 degrees or more away from the center.
type Gnomonic struct{}

// Name implements Projection.
func (Gnomonic) Name() string { return "TAN" }

// ToScreen implements Projection.
func (Gnomonic) ToScreen(p healpix.LonLat, cam *view.Camera) (ScreenPos, bool) {
	x, y, z := cameraFrame(cam.Center()).local(p)
	if z < gnomonicMinZ {
		return ScreenPos{}, false
	}
	half := math.Tan(math.Min(cam.Aperture()/2, math.Pi/2-1e-3))
	return ScreenPos{X: -x / z / half, Y: y / z / half * aspect(cam)}, true
}

// RaytracingIsBeneficial implements Projection.
func (Gnomonic) RaytracingIsBeneficial(cam *view.Camera) bool {
	return cam.Aperture() > gnomonicRaytraceAperture
}
