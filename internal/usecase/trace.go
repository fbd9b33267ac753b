package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer      = otel.Tracer("haxball-league/internal/usecase")
	refusalAttr = attribute.Bool("usecase.refused", true)
)

// startUsecaseSpan opens a child span; an untraced caller gets its own
// non-recording span back so background work never starts a root trace.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if parent := trace.SpanFromContext(ctx); !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return tracer.Start(ctx, name)
}

// endSpan records err on the span. Only faults flag the span as failed; a
// refusal such as a full roster is a normal outcome.
func endSpan(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		return
	}
	span.RecordError(err)
	if IsRefusal(err) {
		span.SetAttributes(refusalAttr)
		return
	}
	span.SetStatus(codes.Error, err.Error())
}
