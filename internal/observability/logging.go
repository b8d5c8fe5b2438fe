package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docvm/internal/logfields"
)

// LogContext holds structured logging context carried through a generation pass.
type LogContext struct {
	BuildID string
	Factory string
	Plugin  string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := extractLogContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithFactory adds the running factory name to the context.
func WithFactory(ctx context.Context, factory string) context.Context {
	lc := extractLogContext(ctx)
	lc.Factory = factory
	return context.WithValue(ctx, logContextKey, lc)
}

// WithPlugin adds the plugin currently being called to the context.
func WithPlugin(ctx context.Context, plugin string) context.Context {
	lc := extractLogContext(ctx)
	lc.Plugin = plugin
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext returns the LogContext stored in ctx.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

// BuildID returns the build ID stored in ctx, if any.
func BuildID(ctx context.Context) string {
	return extractLogContext(ctx).BuildID
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(lc.BuildID))
	}
	if lc.Factory != "" {
		attrs = append(attrs, logfields.Factory(lc.Factory))
	}
	if lc.Plugin != "" {
		attrs = append(attrs, logfields.Plugin(lc.Plugin))
	}
	return attrs
}

func logContext(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	all := append(getLogAttrs(ctx), attrs...)
	slog.LogAttrs(ctx, level, msg, all...)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelDebug, msg, attrs)
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelError, msg, attrs)
}
