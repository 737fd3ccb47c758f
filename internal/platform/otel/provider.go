// Package otel wires OpenTelemetry tracing for runabout processes.
package otel

import (
	"context"
	"strings"

	"github.com/willoftheprophets/runabout/internal/platform/config"
	"github.com/willoftheprophets/runabout/internal/platform/discovery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	envEnabled  = "OTEL_ENABLED"
	envEndpoint = "OTEL_ENDPOINT"
	envSampling = "OTEL_SAMPLE_RATIO"
)

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in. RUNABOUT_OTEL_ENDPOINT turns it on, as does
// RUNABOUT_OTEL_ENABLED=true, which exports to the in-network collector.
// RUNABOUT_OTEL_ENABLED=false always wins. When tracing is off Setup returns
// a no-op shutdown function and registers no global provider. RUNABOUT_OTEL_SAMPLE_RATIO
// selects a parent-based ratio sampler; unset means every trace is sampled.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	endpoint := collectorEndpoint()
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func collectorEndpoint() string {
	enabled, _ := config.Lookup(envEnabled)
	if strings.EqualFold(enabled, "false") {
		return ""
	}
	if endpoint, _ := config.Lookup(envEndpoint); endpoint != "" {
		return endpoint
	}
	if strings.EqualFold(enabled, "true") {
		return discovery.CollectorURL()
	}
	return ""
}

func sampler() sdktrace.Sampler {
	raw, ok := config.Lookup(envSampling)
	if !ok || raw == "" {
		return sdktrace.AlwaysSample()
	}
	ratio, err := parseRatio(raw)
	if err != nil {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}
