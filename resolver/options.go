package resolver

import (
	"log/slog"
	"time"
)

const (
	// DefaultWorkers is the number of concurrent fetches.
	DefaultWorkers = 4

	// DefaultCacheCapacity is the number of resolved tiles kept per cache
	// shard, 64 tiles in total.
	DefaultCacheCapacity = 4
)

// Option configures a Resolver.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	workers  int
	capacity int
	clock    func() time.Time
}

func defaultOptions() options {
	return options{
		logger:   slog.New(slog.DiscardHandler),
		workers:  DefaultWorkers,
		capacity: DefaultCacheCapacity,
		clock:    time.Now,
	}
}

// WithLogger sets the logger for fetch failures and cache hits.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers sets the number of fetch goroutines. Values below 1 are
// ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithCacheCapacity sets how many resolved tiles each cache shard keeps.
func WithCacheCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithClock replaces time.Now for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}
