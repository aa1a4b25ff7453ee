package utils

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "app-bolsas"

// TraceOperation starts a span named name. The returned func records the
// elapsed time and ends the span.
func TraceOperation(ctx context.Context, name string, attrs map[string]interface{}) (context.Context, trace.Span, func()) {
	started := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))
	return ctx, span, func() {
		span.SetAttributes(attribute.Int64("duration_ms", time.Since(started).Milliseconds()))
		span.End()
	}
}

// TraceDatabaseOperation traces a MongoDB call on collection
func TraceDatabaseOperation(ctx context.Context, operation, collection string) (context.Context, trace.Span, func()) {
	return TraceOperation(ctx, "db."+operation, map[string]interface{}{
		"db.system":     "mongodb",
		"db.operation":  operation,
		"db.collection": collection,
	})
}

// TraceCacheOperation traces an operation on a Redis-held record
func TraceCacheOperation(ctx context.Context, operation, key string) (context.Context, trace.Span, func()) {
	return TraceOperation(ctx, "cache."+operation, map[string]interface{}{
		"cache.system": "redis",
		"cache.key":    key,
	})
}

// RecordErrorInSpan marks span failed with err. A nil err is ignored.
func RecordErrorInSpan(span trace.Span, err error, attrs map[string]interface{}) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if len(attrs) > 0 {
		span.SetAttributes(toAttributes(attrs)...)
	}
}

func toAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			out = append(out, attribute.String(k, val))
		case int:
			out = append(out, attribute.Int(k, val))
		case int64:
			out = append(out, attribute.Int64(k, val))
		case bool:
			out = append(out, attribute.Bool(k, val))
		case float64:
			out = append(out, attribute.Float64(k, val))
		default:
			out = append(out, attribute.String(k, fmt.Sprint(val)))
		}
	}
	return out
}
