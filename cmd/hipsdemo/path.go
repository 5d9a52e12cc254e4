package main

import (
	"math"

	"github.com/gogpu/hips/healpix"
)

// path is a scripted camera flight: a pan along the equator at a fixed
// aperture, a zoom towards the end point, then a zoom out past the full
// sky.
type path struct {
	frames   int
	aperture float64
	closest  float64
	widest   float64
}

func newPath(frames int) path {
	return path{
		frames:   max(frames, 3),
		aperture: math.Pi / 3,
		closest:  0.5 * math.Pi / 180,
		widest:   3.5,
	}
}

// at returns the camera state of frame i.
func (p path) at(i int) (healpix.LonLat, float64) {
	phase := p.frames / 3
	i = min(max(i, 0), p.frames-1)
	switch {
	case i < phase:
		t := float64(i) / float64(phase)
		return healpix.LonLat{Lon: t * math.Pi / 2, Lat: 0.2 * math.Sin(2*math.Pi*t)}, p.aperture
	case i < 2*phase:
		t := float64(i-phase) / float64(phase)
		return p.end(), lerpLog(p.aperture, p.closest, t)
	default:
		t := float64(i-2*phase) / float64(max(p.frames-2*phase-1, 1))
		return p.end(), lerpLog(p.closest, p.widest, t)
	}
}

func (p path) end() healpix.LonLat {
	return healpix.LonLat{Lon: math.Pi / 2}
}

// lerpLog interpolates geometrically so zoom speed looks constant.
func lerpLog(a, b, t float64) float64 {
	return a * math.Pow(b/a, t)
}
