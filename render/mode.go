// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/gputypes"

// Mode is the way a frame draws its survey layers.
type Mode int

const (
	// Raytrace draws a screen-covering grid and resolves cells per pixel.
	Raytrace Mode = iota

	// Rasterize draws the tessellated visible cells.
	Rasterize
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Raytrace:
		return "Raytrace"
	case Rasterize:
		return "Rasterize"
	default:
		return "Unknown"
	}
}

// Frame is the per-frame drawing decision shared by every layer.
type Frame struct {
	Mode Mode

	// SwitchFromRaytrace is set on the first rasterized frame after a
	// ray-traced one. Raster geometry built before the switch is stale.
	SwitchFromRaytrace bool
}

// NextFrame decides the mode of a frame given the mode of the previous one.
func NextFrame(past Mode, raytracingBeneficial bool) Frame {
	if raytracingBeneficial {
		return Frame{Mode: Raytrace}
	}
	return Frame{Mode: Rasterize, SwitchFromRaytrace: past == Raytrace}
}

// ModeSwitch remembers the mode of the previous frame.
//
// Call Next once at the start of a frame and Commit once at its end. The
// first frame is treated as following a ray-traced one, so a collection that
// starts rasterized builds its geometry immediately.
type ModeSwitch struct {
	past    Mode
	current Mode
}

// NewModeSwitch returns a switch whose previous frame was ray traced.
func NewModeSwitch() *ModeSwitch {
	return &ModeSwitch{past: Raytrace, current: Raytrace}
}

// Next decides the current frame.
func (s *ModeSwitch) Next(raytracingBeneficial bool) Frame {
	f := NextFrame(s.past, raytracingBeneficial)
	s.current = f.Mode
	return f
}

// Commit ends the current frame.
func (s *ModeSwitch) Commit() {
	s.past = s.current
}

// Past returns the mode of the last committed frame.
func (s *ModeSwitch) Past() Mode {
	return s.past
}

// Current returns the mode chosen by the last call to Next.
func (s *ModeSwitch) Current() Mode {
	return s.current
}

// NeedsRebuild reports whether raster geometry must be rebuilt: the visible
// cell set changed, the tile cache received tiles, or the previous frame was
// ray traced.
func NeedsRebuild(newCells, cacheChanged, switchFromRaytrace bool) bool {
	return newCells || cacheChanged || switchFromRaytrace
}

// CullMode returns the face culling for a layer. Rasterized layers whose
// longitude axis is reversed are mirrored on screen, so their front faces
// flip.
func CullMode(m Mode, longitudeReversed bool) gputypes.CullMode {
	if m == Raytrace || !longitudeReversed {
		return gputypes.CullModeBack
	}
	return gputypes.CullModeFront
}
