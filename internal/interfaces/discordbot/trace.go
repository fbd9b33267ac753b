package discordbot

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var botTracer = otel.Tracer("haxball-league/internal/interfaces/discordbot")
var noopSpan = trace.SpanFromContext(context.Background())

// startInteractionSpan opens the root span of one gateway event.
func startInteractionSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return botTracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer), trace.WithAttributes(attrs...))
}

// startSpan only opens a child span under an interaction span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return botTracer.Start(ctx, name)
}
