// Package tracing provides the OpenTelemetry span helpers used around
// one executor run and its per-source fetches.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "temperature"

// Tracer returns the module-wide tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartRun starts the top-level span for one executor invocation.
func StartRun(ctx context.Context, topic string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "executor.run", trace.WithAttributes(
		attribute.String("topic", topic),
	))
}

// StartFetch starts a child span for a single source's fetch.
func StartFetch(ctx context.Context, source string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "source.fetch", trace.WithAttributes(
		attribute.String("source", source),
	))
}
