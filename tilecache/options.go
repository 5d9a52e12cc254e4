package tilecache

import (
	"log/slog"
	"time"
)

// Option configures a Cache.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	clock        func() time.Time
	restartBlend bool
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.DiscardHandler),
		clock:  time.Now,
	}
}

// WithLogger sets the logger used for eviction and drop diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the clock stamping tile arrival times.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithRestartBlendOnOverwrite makes an overwrite of a resident slot restart
// its blend animation at the overwrite time. By default the slot keeps the
// start time of its first arrival.
func WithRestartBlendOnOverwrite() Option {
	return func(o *options) {
		o.restartBlend = true
	}
}
