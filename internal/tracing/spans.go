package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StartStoreSpan creates a child span around a storage operation, e.g.
// ("items", "list") or ("snapshot", "import").
func StartStoreSpan(ctx context.Context, entity, op string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "store."+entity+"."+op,
		trace.WithAttributes(
			attribute.String("store.entity", entity),
			attribute.String("store.operation", op),
		),
	)
}

// SetRequestAttributes adds request-level attributes to the current span.
// The tenant token is deliberately not recorded.
func SetRequestAttributes(ctx context.Context, requestID, route string) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("request.id", requestID),
		attribute.String("http.route", route),
	)
}

// RecordError records an error on the current span.
func RecordError(ctx context.Context, err error) {
	if err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
	}
}
