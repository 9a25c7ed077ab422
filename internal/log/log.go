package log

import (
	"log/slog"
	"os"
	"strings"
)

type options struct {
	level     slog.Level
	addSource bool
}

type Option func(*options)

// WithLevel sets the minimum level from its string name. Unknown names
// fall back to info.
func WithLevel(level string) Option {
	return func(o *options) {
		switch strings.ToLower(level) {
		case "debug", "verbose":
			o.level = slog.LevelDebug
		case "info":
			o.level = slog.LevelInfo
		case "warn", "warning":
			o.level = slog.LevelWarn
		case "error":
			o.level = slog.LevelError
		default:
			o.level = slog.LevelInfo
		}
	}
}

// WithSource annotates every record with the file and line it came from.
func WithSource() Option {
	return func(o *options) {
		o.addSource = true
	}
}

// New creates the application logger writing JSON records to stderr.
func New(opts ...Option) *slog.Logger {
	o := &options{level: slog.LevelInfo}
	for _, opt := range opts {
		opt(o)
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     o.level,
		AddSource: o.addSource,
	})

	return slog.New(handler)
}
