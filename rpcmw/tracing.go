package rpcmw

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens a span around each outgoing RPC, generalizing the
// teacher's Tracer.StartRPCSpan into a middleware that runs for every call
// on a connection rather than being invoked explicitly at each call site.
type TracingMiddleware struct {
	tracer trace.Tracer
}

// NewTracingMiddleware builds a TracingMiddleware using tracer to open
// spans.
func NewTracingMiddleware(tracer trace.Tracer) *TracingMiddleware {
	return &TracingMiddleware{tracer: tracer}
}

// Handle implements Middleware.
func (m *TracingMiddleware) Handle(c *MiddlewareCallContext) error {
	ctx, span := m.tracer.Start(c.Context(), c.GetCall().Method)
	defer span.End()
	span.SetAttributes(attribute.String("rpc.method", c.GetCall().Method))
	c.WithContext(ctx)

	err := c.Next()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	return err
}
