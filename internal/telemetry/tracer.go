// Package telemetry initializes the optional OpenTelemetry tracer provider
// (no cache or worker-pool code starts spans on it), mirroring the shape of the
// teacher's telemetry/tracer.go at the scope this core needs: a sampled,
// in-process tracer with no OTLP exporter wired (no collector endpoint is
// part of this module's contract — see config.UnifiedConfig.TracingEnabled).
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Config mirrors the teacher's telemetry.Config, trimmed to the fields this
// module's tracer actually uses.
type Config struct {
	ServiceName  string
	Environment  string
	Enabled      bool
	SamplingRate float64
}

// InitTracer builds and installs the global tracer provider when enabled,
// returning nil, nil when tracing is off so callers can unconditionally
// defer a Shutdown call.
func InitTracer(cfg Config) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build telemetry resource: %w", err)
	}

	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	return tp, nil
}

// Tracer returns the named tracer from the global provider. Nothing in
// this module calls it.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
