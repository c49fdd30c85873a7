package spacegen

import (
	"log/slog"
	"sync/atomic"

	"github.com/kmadk/spacegen/internal/logx"
)

// loggerPtr stores the package logger. Accessed atomically so that
// SetLogger can be called concurrently with engine construction.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(logx.Nop())
}

// SetLogger configures the default logger for engines created afterwards.
// By default, spacegen produces no log output. Pass nil to restore the
// silent default. WithLogger overrides it per engine.
//
// Log levels used by spacegen:
//   - [slog.LevelDebug]: viewport changes and excluded bounds (debug mode)
//   - [slog.LevelInfo]: engine lifecycle
//   - [slog.LevelWarn]: budget overruns (debug mode), rejected elements,
//     node construction failures, cyclic design trees
//
// Example:
//
//	spacegen.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	loggerPtr.Store(logx.OrNop(l))
}

// Logger returns the current package logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
