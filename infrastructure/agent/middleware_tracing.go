package agent

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracedAgent wraps task execution in OpenTelemetry spans for distributed
// request tracing.
type tracedAgent struct {
	next        CoreAgent
	serviceName string
}

// TracingMiddleware creates middleware that adds OpenTelemetry tracing to
// task execution. Spans carry the backend, task name, and payload size,
// and record failures as span errors.
func TracingMiddleware(serviceName string) Middleware {
	return func(next CoreAgent) CoreAgent {
		return &tracedAgent{
			next:        next,
			serviceName: serviceName,
		}
	}
}

// DoTask executes the task within a trace span.
func (t *tracedAgent) DoTask(ctx context.Context, task string, payload []byte) ([]byte, error) {
	tracer := otel.Tracer(t.serviceName)
	ctx, span := tracer.Start(ctx, "agent.task", trace.WithAttributes(
		attribute.String("agent.provider", t.next.Provider()),
		attribute.String("agent.task", task),
		attribute.Int("agent.payload.bytes", len(payload)),
	))
	defer span.End()

	result, err := t.next.DoTask(ctx, task, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("agent.result.bytes", len(result)))
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// Provider returns the provider name from the wrapped implementation.
func (t *tracedAgent) Provider() string { return t.next.Provider() }
