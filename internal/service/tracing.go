package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mento-app/mento-server/internal/apperr"
)

const tracerName = "github.com/mento-app/mento-server/internal/service"

func newTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// endSpan ends span, marking it failed for errors that are not client errors.
func endSpan(span trace.Span, err error) {
	if err != nil {
		if _, ok := apperr.As(err); !ok {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
