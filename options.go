package hips

import (
	"log/slog"
	"time"

	"github.com/gogpu/hips/projection"
)

// DefaultBlendDuration is the cross-fade length from one tile to its
// replacement.
const DefaultBlendDuration = 500 * time.Millisecond

// Option configures a Collection during creation.
//
// Example:
//
//	c := hips.NewCollection(
//	    hips.WithProjection(projection.Gnomonic{}),
//	    hips.WithAtlasPages(4),
//	)
type Option func(*options)

type options struct {
	logger        *slog.Logger
	clock         func() time.Time
	projection    projection.Projection
	pages         int
	blendDuration time.Duration
	restartBlend  bool
}

// defaultOptions returns the default collection options.
func defaultOptions() options {
	return options{
		clock:         time.Now,
		projection:    projection.Orthographic{},
		blendDuration: DefaultBlendDuration,
	}
}

// WithLogger sets a logger for this collection instead of the package
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClock replaces time.Now. Tile arrival times and blend progress are
// read from it.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithProjection sets the initial projection. Orthographic is the default.
func WithProjection(p projection.Projection) Option {
	return func(o *options) {
		if p != nil {
			o.projection = p
		}
	}
}

// WithAtlasPages sets the number of atlas pages per survey. Zero keeps the
// tilecache default.
func WithAtlasPages(n int) Option {
	return func(o *options) {
		o.pages = n
	}
}

// WithBlendDuration sets the cross-fade length.
func WithBlendDuration(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.blendDuration = d
		}
	}
}

// WithRestartBlendOnOverwrite restarts the cross-fade when a resident tile
// is overwritten, for instance when real data replaces a missing-tile
// placeholder.
func WithRestartBlendOnOverwrite() Option {
	return func(o *options) {
		o.restartBlend = true
	}
}
