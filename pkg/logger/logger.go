// Package logger wraps log/slog with package-level helpers so services can log
// without carrying a logger through every constructor.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

var base = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

type ctxKey struct{}

// Init configures the process logger for the given environment. Production
// writes JSON at info level, everything else writes text at debug level.
func Init(env string) {
	InitWithWriter(env, os.Stdout)
}

func InitWithWriter(env string, w io.Writer) {
	var handler slog.Handler
	switch env {
	case "production", "prod":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	base = slog.New(handler)
	slog.SetDefault(base)
}

// L returns the process logger.
func L() *slog.Logger {
	return base
}

// WithCtx returns the request scoped logger stored by the request logger
// middleware, or the process logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return base
	}
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return base
}

func Inject(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func Debug(msg string, args ...any) { base.Debug(msg, args...) }

func Info(msg string, args ...any) { base.Info(msg, args...) }

func Warn(msg string, args ...any) { base.Warn(msg, args...) }

func Error(msg string, args ...any) { base.Error(msg, args...) }

// Fatal logs at error level and exits the process.
func Fatal(msg string, args ...any) {
	base.Error(msg, args...)
	os.Exit(1)
}
