package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ajiwo/dynstore"

// Tracer returns the dynstore tracer of provider, or of the global provider
// when provider is nil.
func Tracer(provider trace.TracerProvider) trace.Tracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return provider.Tracer(tracerName)
}

// StartConstructSpan starts a span around a constructor call for name.
func StartConstructSpan(ctx context.Context, tracer trace.Tracer, name, pattern string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "dynstore.construct",
		trace.WithAttributes(
			attribute.String("dynstore.name", name),
			attribute.String("dynstore.pattern", pattern),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
