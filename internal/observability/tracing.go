package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "petition-service"

// Tracer returns the service tracer. Spans are no-ops until an SDK provider is installed.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
