package application

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"checkin/internal/domain"
)

var tracer = otel.Tracer("checkin/internal/application")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on span. Expected domain failures are tagged with their
// code; only internal errors mark the span as failed.
func endSpan(span trace.Span, err error) {
	if err != nil {
		if code := domain.Code(err); code != "" {
			span.SetAttributes(attribute.String("checkin.error_code", code))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
