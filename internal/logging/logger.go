package logging

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/google/wire"

	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return newLogger(os.Stderr, level(os.Getenv("SAI_LOG_LEVEL"), cfg.Debug), cfg.Debug)
}

func level(env string, debug bool) slog.Level {
	switch strings.ToLower(env) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func newLogger(w io.Writer, lvl slog.Level, addSource bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// shortPath returns a shortened version of the file path
func shortPath(file string) string {
	if idx := strings.Index(file, "blob-arena-contracts/"); idx != -1 {
		return file[idx+len("blob-arena-contracts/"):]
	}
	// Relative to this module's source tree when built from a checkout
	_, f, _, _ := runtime.Caller(0)
	if root, _, ok := strings.Cut(f, "internal/logging/"); ok && strings.HasPrefix(file, root) {
		return strings.TrimPrefix(file, root)
	}
	parts := strings.Split(file, "/")
	return parts[len(parts)-1]
}
