// Package telemetry wires OpenTelemetry tracing into the browser service.
//
// Configuration comes from the standard OTEL_* environment variables:
//
//	OTEL_ENABLED                    - enable tracing (default: false)
//	OTEL_SERVICE_NAME               - service name (default: heap-browser)
//	OTEL_SERVICE_VERSION            - service version (default: unknown)
//	OTEL_EXPORTER_OTLP_ENDPOINT     - OTLP collector endpoint
//	OTEL_EXPORTER_OTLP_PROTOCOL     - grpc or http/protobuf (default: grpc)
//	OTEL_EXPORTER_OTLP_HEADERS      - exporter headers ("k1=v1,k2=v2")
//	OTEL_EXPORTER_OTLP_INSECURE     - plaintext connection (default: false)
//	OTEL_TRACES_SAMPLER             - sampler type (default: always_on)
//	OTEL_TRACES_SAMPLER_ARG         - sampler argument (e.g. ratio)
//	OTEL_RESOURCE_ATTRIBUTES        - extra resource attributes
//
// Init installs a global TracerProvider; code obtains tracers through
// otel.Tracer as usual. When tracing is disabled Init is a no-op and the
// default no-op provider stays in place.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
)

var (
	globalConfig *Config
	configOnce   sync.Once
)

// ShutdownFunc flushes and stops the TracerProvider.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(_ context.Context) error {
	return nil
}

// Init initializes OpenTelemetry from the environment and sets the global
// TracerProvider. Safe to call more than once; only the first call installs
// the provider.
func Init(ctx context.Context) (ShutdownFunc, error) {
	cfg := loadConfig()

	if !cfg.Enabled {
		return noopShutdown, nil
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}

	exporter, err := createExporter(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
		trace.WithSampler(createSampler(cfg)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		return tp.Shutdown(ctx)
	}, nil
}

// Enabled reports whether tracing is enabled.
func Enabled() bool {
	return loadConfig().Enabled
}

// GetConfig returns the cached telemetry configuration.
func GetConfig() *Config {
	return loadConfig()
}

func loadConfig() *Config {
	configOnce.Do(func() {
		globalConfig = LoadFromEnv()
	})
	return globalConfig
}
