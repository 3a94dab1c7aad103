// Package debug holds the process logger. It is safe to call before Init:
// until then, records below warn level are dropped and the rest go to stderr.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	logger  = newLogger(os.Stderr, slog.LevelWarn)
	enabled bool
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Init enables or disables debug output on stderr.
func Init(enable bool) {
	SetOutput(os.Stderr, enable)
}

// SetOutput directs log records to w. With debug enabled every level is
// written; otherwise only warnings and errors.
func SetOutput(w io.Writer, debugEnabled bool) {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}

	mu.Lock()
	defer mu.Unlock()
	enabled = debugEnabled
	logger = newLogger(w, level)
}

// Discard drops every record. Tests use it to keep output clean.
func Discard() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Enabled reports whether debug output is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) { current().Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { current().Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { current().Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { current().Error(msg, args...) }

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return current()
}
