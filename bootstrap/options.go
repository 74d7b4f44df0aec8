package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/podscribe/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	summaryOut      io.Writer
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the application logger. Without it the global logger is used.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for stop hooks.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithSummaryOutput sets where the startup summary is printed. Nil
// suppresses it.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) {
		if w == nil {
			w = io.Discard
		}
		o.summaryOut = w
	}
}
