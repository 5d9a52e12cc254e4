// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Raytrace, "Raytrace"},
		{Rasterize, "Rasterize"},
		{Mode(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestNextFrame(t *testing.T) {
	tests := []struct {
		name       string
		past       Mode
		beneficial bool
		want       Frame
	}{
		{"stay raytrace", Raytrace, true, Frame{Mode: Raytrace}},
		{"raytrace to raster", Raytrace, false, Frame{Mode: Rasterize, SwitchFromRaytrace: true}},
		{"stay raster", Rasterize, false, Frame{Mode: Rasterize}},
		{"raster to raytrace", Rasterize, true, Frame{Mode: Raytrace}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextFrame(tt.past, tt.beneficial); got != tt.want {
				t.Errorf("NextFrame(%v, %v) = %+v, want %+v", tt.past, tt.beneficial, got, tt.want)
			}
		})
	}
}

func TestModeSwitchSequence(t *testing.T) {
	sw := NewModeSwitch()

	// The first rasterized frame counts as a switch.
	f := sw.Next(false)
	if !f.SwitchFromRaytrace {
		t.Fatal("first raster frame should report a switch")
	}
	sw.Commit()

	f = sw.Next(false)
	if f.SwitchFromRaytrace {
		t.Error("second raster frame should not report a switch")
	}
	sw.Commit()

	f = sw.Next(true)
	if f.Mode != Raytrace || f.SwitchFromRaytrace {
		t.Errorf("zoomed-out frame = %+v", f)
	}
	sw.Commit()

	f = sw.Next(false)
	if !f.SwitchFromRaytrace {
		t.Error("raster frame after raytrace should report a switch")
	}
}

func TestModeSwitchCommitOncePerFrame(t *testing.T) {
	sw := NewModeSwitch()
	sw.Next(false)
	if sw.Past() != Raytrace {
		t.Fatalf("Past before Commit = %v, want Raytrace", sw.Past())
	}
	if sw.Current() != Rasterize {
		t.Fatalf("Current = %v, want Rasterize", sw.Current())
	}
	sw.Commit()
	if sw.Past() != Rasterize {
		t.Errorf("Past after Commit = %v, want Rasterize", sw.Past())
	}
}

func TestNeedsRebuild(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		a, b, c := mask&1 != 0, mask&2 != 0, mask&4 != 0
		if got, want := NeedsRebuild(a, b, c), mask != 0; got != want {
			t.Errorf("NeedsRebuild(%v, %v, %v) = %v, want %v", a, b, c, got, want)
		}
	}
}

func TestCullMode(t *testing.T) {
	tests := []struct {
		mode     Mode
		reversed bool
		want     gputypes.CullMode
	}{
		{Raytrace, false, gputypes.CullModeBack},
		{Raytrace, true, gputypes.CullModeBack},
		{Rasterize, false, gputypes.CullModeBack},
		{Rasterize, true, gputypes.CullModeFront},
	}
	for _, tt := range tests {
		if got := CullMode(tt.mode, tt.reversed); got != tt.want {
			t.Errorf("CullMode(%v, %v) = %v, want %v", tt.mode, tt.reversed, got, tt.want)
		}
	}
}
