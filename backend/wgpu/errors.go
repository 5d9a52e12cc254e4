package wgpu

import "errors"

var (
	// ErrNoFrame is returned when drawing outside BeginFrame and EndFrame.
	ErrNoFrame = errors.New("wgpu: no frame in progress")

	// ErrFrameInProgress is returned by BeginFrame before the previous
	// frame ended.
	ErrFrameInProgress = errors.New("wgpu: frame already in progress")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("wgpu: sink closed")

	// ErrUnknownAtlas is returned when a survey is drawn before its atlas
	// was requested through AtlasUploader.
	ErrUnknownAtlas = errors.New("wgpu: no atlas for survey")

	// ErrRegionOutOfBounds is returned when an upload does not fit its page.
	ErrRegionOutOfBounds = errors.New("wgpu: region out of bounds")
)
