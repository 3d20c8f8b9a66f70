package relcache

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (c *Cache) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("relcache.prefix", c.prefix))
	return c.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func entityAttrs(r EntityRef) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("relcache.entity", string(r.Type)),
		attribute.String("relcache.entity_id", r.ID),
	}
}
