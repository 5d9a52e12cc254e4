package view

import (
	"fmt"
	"math"

	"github.com/gogpu/hips/healpix"
)

// UserAction is the last kind of camera motion.
type UserAction int

const (
	// Starting is the state of a camera that has not moved yet.
	Starting UserAction = iota
	// Moving means the center changed at a constant aperture.
	Moving
	// Zooming means the aperture shrank.
	Zooming
	// Unzooming means the aperture grew.
	Unzooming
)

// String returns the action name.
func (a UserAction) String() string {
	switch a {
	case Starting:
		return "Starting"
	case Moving:
		return "Moving"
	case Zooming:
		return "Zooming"
	case Unzooming:
		return "Unzooming"
	default:
		return "Unknown"
	}
}

// MaxAperture is the widest horizontal field of view.
const MaxAperture = 2 * math.Pi

// Camera looks at the celestial sphere from its center.
type Camera struct {
	center   healpix.LonLat
	aperture float64
	width    int
	height   int
	action   UserAction
}

// NewCamera returns a camera looking at (0, 0) with the given viewport size
// in pixels and horizontal aperture in radians.
func NewCamera(width, height int, aperture float64) *Camera {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("view: invalid viewport %dx%d", width, height))
	}
	return &Camera{
		aperture: clampAperture(aperture),
		width:    width,
		height:   height,
	}
}

// Center returns the position at the middle of the viewport.
func (c *Camera) Center() healpix.LonLat { return c.center }

// Aperture returns the horizontal field of view in radians.
func (c *Camera) Aperture() float64 { return c.aperture }

// Size returns the viewport size in pixels.
func (c *Camera) Size() (width, height int) { return c.width, c.height }

// LastAction returns the last motion applied to the camera.
func (c *Camera) LastAction() UserAction { return c.action }

// SetCenter moves the camera.
func (c *Camera) SetCenter(p healpix.LonLat) {
	p = p.Normalized()
	p.Lat = math.Max(-math.Pi/2, math.Min(math.Pi/2, p.Lat))
	if p == c.center {
		return
	}
	c.center = p
	c.action = Moving
}

// SetAperture zooms the camera. A smaller aperture zooms in.
func (c *Camera) SetAperture(a float64) {
	a = clampAperture(a)
	switch {
	case a < c.aperture:
		c.action = Zooming
	case a > c.aperture:
		c.action = Unzooming
	default:
		return
	}
	c.aperture = a
}

// Resize changes the viewport size in pixels.
func (c *Camera) Resize(width, height int) {
	if width > 0 && height > 0 {
		c.width, c.height = width, height
	}
}

// PixelAngle returns the angle covered by one screen pixel.
func (c *Camera) PixelAngle() float64 {
	return c.aperture / float64(c.width)
}

// Radius returns the half-angle of a cone around Center that contains the
// whole viewport.
func (c *Camera) Radius() float64 {
	ratio := float64(c.height) / float64(c.width)
	return math.Min(c.aperture/2*math.Sqrt(1+ratio*ratio), math.Pi)
}

func clampAperture(a float64) float64 {
	if a <= 0 || math.IsNaN(a) {
		return 1e-9
	}
	return math.Min(a, MaxAperture)
}
