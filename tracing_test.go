package relcache

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func tracedCache(t *testing.T) (*Cache, *tracetest.SpanRecorder, func(string)) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	c, mr := newTestCache(t, "poetry", func(o *Options) { o.TracerProvider = tp })
	return c, sr, mr.SetError
}

func attrValue(attrs []attribute.KeyValue, key string) (string, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.Emit(), true
		}
	}
	return "", false
}

func TestRemoveRelationsSpan(t *testing.T) {
	c, sr, _ := tracedCache(t)

	if err := c.RemoveRelations(context.Background(), "p1", EntityPoem); err != nil {
		t.Fatalf("RemoveRelations: %v", err)
	}
	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Name() != "relcache.RemoveRelations" {
		t.Fatalf("spans: %v", spans)
	}
	attrs := spans[0].Attributes()
	for key, want := range map[string]string{
		"relcache.prefix":    "poetry",
		"relcache.entity":    "poem",
		"relcache.entity_id": "p1",
	} {
		if got, ok := attrValue(attrs, key); !ok || got != want {
			t.Fatalf("%s = %q (present=%v), want %q", key, got, ok, want)
		}
	}
	if spans[0].Status().Code == codes.Error {
		t.Fatalf("successful call recorded an error status")
	}
}

func TestInvalidateMutationSpansNestAndRecordErrors(t *testing.T) {
	c, sr, setErr := tracedCache(t)
	ctx := context.Background()

	if err := c.InvalidateMutation(ctx, CreatePoem, Ref(EntityPoem, "p1"), Ref(EntityAuthor, "a1")); err != nil {
		t.Fatalf("InvalidateMutation: %v", err)
	}
	spans := sr.Ended()
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	parent := spans[len(spans)-1]
	if parent.Name() != "relcache.InvalidateMutation" {
		t.Fatalf("last ended span: %q", parent.Name())
	}
	for _, s := range spans[:2] {
		if s.Parent().SpanID() != parent.SpanContext().SpanID() {
			t.Fatalf("%s is not a child of InvalidateMutation", s.Name())
		}
	}

	setErr("ERR injected")
	if err := c.InvalidateMutation(ctx, UpdatePoem, Ref(EntityPoem, "p1")); err == nil {
		t.Fatalf("expected error")
	}
	spans = sr.Ended()
	last := spans[len(spans)-1]
	if last.Status().Code != codes.Error || len(last.Events()) == 0 {
		t.Fatalf("error not recorded on span: status=%v events=%d", last.Status(), len(last.Events()))
	}
}
