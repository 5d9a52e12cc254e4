// Package projection maps the celestial sphere to the screen.
//
// Positions are returned in normalized device coordinates: X and Y in
// [-1, 1] cover the viewport, X to the right and Y up.
package projection

import (
	"math"

	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/view"
)

// ScreenPos is a position in normalized device coordinates.
type ScreenPos struct {
	X, Y float64
}

// Projection maps sky positions to the screen for a camera.
type Projection interface {
	// Name returns a short identifier, e.g. "SIN".
	Name() string

	// ToScreen returns the screen position of p. It returns false when p
	// cannot be represented, for instance when it lies behind the camera.
	ToScreen(p healpix.LonLat, cam *view.Camera) (ScreenPos, bool)

	// RaytracingIsBeneficial reports whether the field of view is wide
	// enough that per-pixel ray tracing beats rasterizing cells.
	RaytracingIsBeneficial(cam *view.Camera) bool
}

// frame is the camera basis: forward points at the camera center, east and
// north span the tangent plane.
type frame struct {
	forward, east, north [3]float64
}

func cameraFrame(center healpix.LonLat) frame {
	sl, cl := math.Sincos(center.Lon)
	sb, cb := math.Sincos(center.Lat)
	return frame{
		forward: [3]float64{cb * cl, cb * sl, sb},
		east:    [3]float64{-sl, cl, 0},
		north:   [3]float64{-sb * cl, -sb * sl, cb},
	}
}

// local returns the coordinates of p in the camera frame.
func (f frame) local(p healpix.LonLat) (x, y, z float64) {
	v := p.Vector()
	return dot(v, f.east), dot(v, f.north), dot(v, f.forward)
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func aspect(cam *view.Camera) float64 {
	w, h := cam.Size()
	return float64(w) / float64(h)
}
