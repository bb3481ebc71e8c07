package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StartBatchSpan opens the parent span of a batch run.
func StartBatchSpan(ctx context.Context, operation string, items int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "batch."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("batch.operation", operation),
			attribute.Int("batch.items", items),
		),
	)
}

func StartBatchItemSpan(ctx context.Context, operation, path string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "batch."+operation+".item",
		trace.WithAttributes(
			attribute.String("batch.operation", operation),
			attribute.String("file.path", path),
		),
	)
}
