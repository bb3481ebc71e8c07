package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := tracer
	tracer = tp.Tracer(DefaultServiceName)
	t.Cleanup(func() { tracer = prev })
	return rec
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), &Config{Enabled: false})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
	if Tracer() == nil {
		t.Error("Tracer() = nil")
	}
}

func TestRecordError(t *testing.T) {
	rec := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "image.crop")
	RecordError(ctx, errors.New("params missing"))
	RecordError(ctx, nil)
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	if got := spans[0].Status(); got.Code != codes.Error || got.Description != "params missing" {
		t.Errorf("status = %+v, want error with description", got)
	}
	if n := len(spans[0].Events()); n != 1 {
		t.Errorf("events = %d, want 1", n)
	}
}

func TestAddSpanAttributes(t *testing.T) {
	rec := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "image.resize")
	AddSpanAttributes(ctx, attribute.Int("image.width", 200))
	span.End()

	attrs := rec.Ended()[0].Attributes()
	found := false
	for _, a := range attrs {
		if a.Key == "image.width" && a.Value.AsInt64() == 200 {
			found = true
		}
	}
	if !found {
		t.Errorf("attributes = %v, want image.width=200", attrs)
	}
}

func TestBatchSpans(t *testing.T) {
	rec := withRecorder(t)

	ctx, parent := StartBatchSpan(context.Background(), "resize", 2)
	_, child := StartBatchItemSpan(ctx, "resize", "a.jpg")
	child.End()
	parent.End()

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}
	if spans[0].Name() != "batch.resize.item" || spans[1].Name() != "batch.resize" {
		t.Errorf("span names = %q, %q", spans[0].Name(), spans[1].Name())
	}
	if spans[0].Parent().SpanID() != spans[1].SpanContext().SpanID() {
		t.Error("item span is not a child of the batch span")
	}
}
