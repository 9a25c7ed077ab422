package log

import (
	"log"
	"log/slog"
	"strings"
)

type logAdapter struct {
	slog *slog.Logger
}

// NewLogAdapter wraps a slog.Logger into a stdlib *log.Logger, for
// collaborators that only accept the latter (net/http, chi middleware).
func NewLogAdapter(logger *slog.Logger) *log.Logger {
	return log.New(&logAdapter{slog: logger}, "", 0)
}

func (a *logAdapter) Write(p []byte) (n int, err error) {
	// Forward the message into the slog.Logger
	a.slog.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
