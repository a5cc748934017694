package rpcmw

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewTracerProvider builds an SDK tracer provider tagged with serviceName,
// the OpenTelemetry-SDK equivalent of the teacher's Tracer.Init(svcname,
// jaegerhost): a named resource plus a span-processing pipeline, here left
// without a configured exporter since no collector endpoint is part of this
// fragment's scope — spans are sampled and timed but not shipped anywhere.
// A caller that wires one in later only needs to add
// sdktrace.WithBatcher(exporter) to the options below.
func NewTracerProvider(serviceName string) *sdktrace.TracerProvider {
	res := resource.NewWithAttributes("", attribute.String("service.name", serviceName))
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}

// Shutdown flushes and stops the provider, the Tracer.Flush() analogue.
func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider) error {
	return tp.Shutdown(ctx)
}
