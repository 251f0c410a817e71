// Package logger configures the application slog logger and provides
// request scoped loggers for HTTP handlers.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// LevelNone disables logging (used by tests)
const LevelNone = slog.Level(100)

// ParseLogLevel converts a LOG_LEVEL string to a slog level.
// Unknown values default to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none", "off":
		return LevelNone
	default:
		return slog.LevelInfo
	}
}

// InitLogger creates the application logger and sets it as the slog default.
//
// prod and staging environments log JSON, other environments use a
// human readable tint handler (coloured when stderr is a terminal).
func InitLogger(level slog.Level, environment string) *slog.Logger {
	return initLogger(os.Stderr, level, environment)
}

func initLogger(w io.Writer, level slog.Level, environment string) *slog.Logger {
	var handler slog.Handler

	switch {
	case level >= LevelNone:
		handler = slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
	case environment == "prod" || environment == "staging":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		noColor := true
		if f, ok := w.(*os.File); ok {
			noColor = !isatty.IsTerminal(f.Fd())
		}
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			NoColor:    noColor,
		})
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

type contextKey struct{}

// requestLogState holds the request logger and the attributes collected while the request is processed.
type requestLogState struct {
	mu     sync.Mutex
	logger *slog.Logger
	attrs  []slog.Attr
}

// ContextWithRequestLogger returns a context carrying a request scoped logger
func ContextWithRequestLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, &requestLogState{logger: l})
}

// ContextRequestLogger returns the request logger stored in ctx, or the default logger.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if state, ok := ctx.Value(contextKey{}).(*requestLogState); ok {
		return state.logger
	}
	return slog.Default()
}

// ContextWithLogAttrs adds attributes that are included in the final request log line.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	state, ok := ctx.Value(contextKey{}).(*requestLogState)
	if !ok {
		return
	}
	state.mu.Lock()
	state.attrs = append(state.attrs, attrs...)
	state.mu.Unlock()
}

// contextLogAttrs returns the attributes collected with ContextWithLogAttrs
func contextLogAttrs(ctx context.Context) []slog.Attr {
	state, ok := ctx.Value(contextKey{}).(*requestLogState)
	if !ok {
		return nil
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	return append([]slog.Attr(nil), state.attrs...)
}
