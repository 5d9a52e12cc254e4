package wgpu

import (
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hips/shader"
)

// Option configures a Sink during creation.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	format  gputypes.TextureFormat
	shaders *shader.Manager
}

func defaultOptions() options {
	return options{
		format: gputypes.TextureFormatBGRA8Unorm,
	}
}

// WithLogger sets the logger. The default is hips.Logger() at creation.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTargetFormat sets the format of the views passed to BeginFrame.
// BGRA8Unorm is the default.
func WithTargetFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithShaderManager shares compiled programs between sinks.
func WithShaderManager(m *shader.Manager) Option {
	return func(o *options) {
		o.shaders = m
	}
}
