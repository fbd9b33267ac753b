package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxFieldsKey struct{}

// ContextWith returns a context whose log calls carry args as extra fields,
// appended after any fields already attached.
func ContextWith(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)
	merged := make([]zap.Field, 0, len(prev)+len(args)/2+1)
	merged = append(merged, prev...)
	merged = append(merged, fields(args)...)
	return context.WithValue(ctx, ctxFieldsKey{}, merged)
}

func contextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	attached, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return attached
	}
	out := make([]zap.Field, 0, len(attached)+2)
	out = append(out, attached...)
	return append(out,
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// fields pairs up alternating keys and values. A non-string key becomes
// "arg" and a dangling key gets a nil value, so a malformed call still logs.
func fields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, _ := args[i].(string)
		if key == "" {
			key = "arg"
		}
		var value any
		if i+1 < len(args) {
			value = args[i+1]
		}
		if err, ok := value.(error); ok {
			out = append(out, zap.NamedError(key, err))
			continue
		}
		out = append(out, zap.Any(key, value))
	}
	return out
}
