package hips

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for hips and the tile caches and
// resolvers it creates. By default, hips produces no log output.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by hips:
//   - [slog.LevelDebug]: per-frame diagnostics (geometry rebuilds, mode
//     switches, evictions)
//   - [slog.LevelInfo]: lifecycle events (survey created or removed)
//   - [slog.LevelWarn]: non-fatal issues (tile dropped, sink upload failure)
//
// Example:
//
//	hips.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by hips.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// forwardHandler sends records to whatever logger is current when they are
// emitted. Sub-packages receive a logger built on it, so a later SetLogger
// reaches caches created earlier.
type forwardHandler struct {
	ops []handlerOp
}

// handlerOp is one WithAttrs or WithGroup call, replayed in order.
type handlerOp struct {
	attrs []slog.Attr
	group string
}

func (h forwardHandler) target() slog.Handler {
	t := Logger().Handler()
	for _, op := range h.ops {
		if op.group != "" {
			t = t.WithGroup(op.group)
		} else {
			t = t.WithAttrs(op.attrs)
		}
	}
	return t
}

func (h forwardHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Enabled(ctx, level)
}

func (h forwardHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.target().Handle(ctx, r)
}

func (h forwardHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(handlerOp{attrs: attrs})
}

func (h forwardHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(handlerOp{group: name})
}

func (h forwardHandler) with(op handlerOp) forwardHandler {
	ops := make([]handlerOp, len(h.ops), len(h.ops)+1)
	copy(ops, h.ops)
	return forwardHandler{ops: append(ops, op)}
}

// sharedLogger returns a logger that follows SetLogger.
func sharedLogger() *slog.Logger {
	return slog.New(forwardHandler{})
}
