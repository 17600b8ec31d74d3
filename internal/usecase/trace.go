package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "capitascore/internal/usecase"

// startSpan opens a child span only when the incoming context already
// carries a sampled trace. Untraced callers get a noop span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return noop.NewTracerProvider().Tracer(tracerName).Start(ctx, name)
	}
	return otel.Tracer(tracerName).Start(ctx, name)
}
