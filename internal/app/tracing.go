package app

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const serviceName = "nodegraph"

// newTracer returns a tracer exporting spans as JSON to w, or a no-op tracer
// when tracing is disabled. The returned provider is nil when disabled.
func newTracer(enabled bool, w io.Writer) (trace.Tracer, *sdktrace.TracerProvider, error) {
	if !enabled {
		return noop.NewTracerProvider().Tracer(serviceName), nil, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(provider)
	return provider.Tracer(serviceName), provider, nil
}

func shutdownTracer(ctx context.Context, p *sdktrace.TracerProvider) error {
	if p == nil {
		return nil
	}
	return p.Shutdown(ctx)
}
