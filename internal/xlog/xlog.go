// Package xlog provides the package-scoped structured logger shared by the
// optimizer, interpreter, and time-needle-bed packages (SPEC_FULL.md §2,
// ambient stack). It wraps zerolog the way a service boundary would,
// without introducing any global mutable configuration beyond the
// sync.Once-guarded default logger.
package xlog

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	once    sync.Once
	logger  zerolog.Logger
	current zerolog.Level = zerolog.InfoLevel
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// Default returns the process-wide logger, writing human-readable console
// output. Components should call For(component) rather than using this
// directly, to keep a "component" field on every line.
func Default() zerolog.Logger {
	once.Do(func() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
			Level(current).
			With().Timestamp().Logger()
	})

	return logger
}

// For returns a child logger tagged with component, e.g. xlog.For("optimizer").
func For(component string) zerolog.Logger {
	return Default().With().Str("component", component).Logger()
}

// SetLevel adjusts the process-wide minimum log level (e.g. for cmd/knitc's
// --verbose flag). Safe to call before the first Default()/For() call.
func SetLevel(level zerolog.Level) {
	current = level
	logger = logger.Level(level)
}
