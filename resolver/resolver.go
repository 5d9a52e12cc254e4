// Package resolver fetches tiles asynchronously.
//
// Requests are queued without blocking the frame loop. Worker goroutines
// call a Fetcher and turn each outcome into a tile.Resolved event: Found
// with the payload, or Missing when the fetch failed. Events are collected
// by Drain at the start of a frame.
//
// Keys are deduplicated across workers. A key requested while its fetch is
// in flight produces an "available" notification instead of a second fetch.
// Recently resolved tiles are kept and replayed without fetching again, so
// a tile evicted from the atlas comes back cheaply.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"hash/maphash"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/hips/internal/cache"
	"github.com/gogpu/hips/tile"
)

// ErrClosed is returned by Request after Close.
var ErrClosed = errors.New("resolver: closed")

// Fetcher obtains the payload of one tile.
type Fetcher interface {
	Fetch(ctx context.Context, key tile.Key, cfg tile.Config) (tile.Payload, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, key tile.Key, cfg tile.Config) (tile.Payload, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, key tile.Key, cfg tile.Config) (tile.Payload, error) {
	return f(ctx, key, cfg)
}

type entry struct {
	done     bool
	resolved tile.Resolved
}

type job struct {
	key         tile.Key
	cfg         tile.Config
	requestedAt time.Time
}

// Event is the outcome of one request.
type Event struct {
	Key      tile.Key
	Resolved tile.Resolved
}

// Resolver runs fetches on a pool of goroutines.
type Resolver struct {
	fetch Fetcher
	opts  options
	seen  *cache.Sharded[tile.Key, entry]

	mu        sync.Mutex
	queue     []job
	events    map[tile.Key]tile.Resolved
	available []tile.Key
	closed    bool

	notify chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var keySeed = maphash.MakeSeed()

// KeyHasher hashes a tile key for shard selection.
func KeyHasher(k tile.Key) uint64 {
	var h maphash.Hash
	h.SetSeed(keySeed)
	h.WriteString(k.URL)
	return cache.Uint64Hasher(h.Sum64() ^ uint64(k.Cell.Depth)<<58 ^ k.Cell.Index)
}

// New starts a resolver. Workers stop when ctx is done or Close is called.
func New(ctx context.Context, fetch Fetcher, opts ...Option) *Resolver {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(ctx)
	r := &Resolver{
		fetch:  fetch,
		opts:   o,
		seen:   cache.NewSharded[tile.Key, entry](o.capacity, KeyHasher),
		events: make(map[tile.Key]tile.Resolved),
		notify: make(chan struct{}, 1),
		cancel: cancel,
	}
	for range o.workers {
		r.wg.Add(1)
		go r.work(ctx)
	}
	return r
}

// Request asks for the tile key of a survey described by cfg. It never
// blocks.
func (r *Resolver) Request(key tile.Key, cfg tile.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	for {
		if r.seen.SetIfAbsent(key, entry{}) {
			r.queue = append(r.queue, job{key: key, cfg: cfg, requestedAt: r.opts.clock()})
			r.signal()
			return nil
		}
		e, ok := r.seen.Get(key)
		if !ok {
			// Evicted between the claim and the lookup.
			continue
		}
		if e.done {
			r.opts.logger.Debug("resolver: replaying resolved tile", slog.String("key", key.String()))
			r.events[key] = e.resolved
		} else {
			r.available = append(r.available, key)
		}
		return nil
	}
}

// signal wakes one worker. Caller must hold r.mu.
func (r *Resolver) signal() {
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued requests not yet picked by a worker.
func (r *Resolver) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Drain returns the events and available keys collected since the previous
// call.
func (r *Resolver) Drain() (resolved map[tile.Key]tile.Resolved, available []tile.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resolved, available = r.events, r.available
	r.events = make(map[tile.Key]tile.Resolved)
	r.available = nil
	return resolved, available
}

// Close stops the workers and waits for them. Fetches in flight see their
// context canceled.
func (r *Resolver) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()
	r.wg.Wait()
}

func (r *Resolver) work(ctx context.Context) {
	defer r.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		j, ok := r.next()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-r.notify:
				continue
			}
		}
		r.resolve(ctx, j)
	}
}

// next pops one job and passes the wake-up on if more remain.
func (r *Resolver) next() (job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return job{}, false
	}
	j := r.queue[0]
	r.queue = r.queue[1:]
	if len(r.queue) > 0 {
		r.signal()
	}
	return j, true
}

func (r *Resolver) resolve(ctx context.Context, j job) {
	p, err := r.fetch.Fetch(ctx, j.key, j.cfg)
	if ctx.Err() != nil {
		r.seen.Delete(j.key)
		return
	}

	var res tile.Resolved
	if err == nil {
		err = checkPayload(p, j.cfg)
	}
	if err != nil {
		r.opts.logger.Debug("resolver: tile missing",
			slog.String("key", j.key.String()),
			slog.String("err", err.Error()))
		res = tile.Missing(j.requestedAt)
	} else {
		res = tile.Found(p, j.requestedAt)
	}

	r.seen.Set(j.key, entry{done: true, resolved: res})
	r.mu.Lock()
	r.events[j.key] = res
	r.mu.Unlock()
}

func checkPayload(p tile.Payload, cfg tile.Config) error {
	if p.Format != cfg.Format || p.Size != cfg.TileSize {
		return fmt.Errorf("%w: got %s %dpx, survey is %s %dpx",
			tile.ErrFormatMismatch, p.Format, p.Size, cfg.Format, cfg.TileSize)
	}
	return nil
}
