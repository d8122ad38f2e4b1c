// Package logging wraps log/slog with trace/span correlation, the way
// the engine's telemetry subsystem correlates structured log lines with
// the active span.
package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Logger is the narrow logging surface used throughout the module.
type Logger interface {
	InfoCtx(ctx context.Context, msg string, args ...any)
	WarnCtx(ctx context.Context, msg string, args ...any)
	ErrorCtx(ctx context.Context, msg string, args ...any)
}

type correlatedLogger struct {
	base *slog.Logger
}

// New wraps a *slog.Logger with span-correlation.
func New(base *slog.Logger) Logger {
	if base == nil {
		base = slog.Default()
	}
	return &correlatedLogger{base: base}
}

func (l *correlatedLogger) InfoCtx(ctx context.Context, msg string, args ...any) {
	l.base.With(correlationAttrs(ctx)...).InfoContext(ctx, msg, args...)
}

func (l *correlatedLogger) WarnCtx(ctx context.Context, msg string, args ...any) {
	l.base.With(correlationAttrs(ctx)...).WarnContext(ctx, msg, args...)
}

func (l *correlatedLogger) ErrorCtx(ctx context.Context, msg string, args ...any) {
	l.base.With(correlationAttrs(ctx)...).ErrorContext(ctx, msg, args...)
}

func correlationAttrs(ctx context.Context) []any {
	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return nil
	}
	return []any{
		slog.String("trace_id", span.TraceID().String()),
		slog.String("span_id", span.SpanID().String()),
	}
}
