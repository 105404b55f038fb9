package telemetry

import (
	"os"
	"strings"
)

// Config holds OpenTelemetry settings loaded from the environment.
type Config struct {
	// Enabled turns tracing on. Loaded from OTEL_ENABLED.
	Enabled bool

	// ServiceName defaults to "heap-browser".
	ServiceName string

	// ServiceVersion defaults to "unknown".
	ServiceVersion string

	// Endpoint is the OTLP collector endpoint.
	Endpoint string

	// Protocol is "grpc" or "http/protobuf". Defaults to grpc.
	Protocol string

	// Headers holds exporter headers such as an Authorization token.
	// Format: "key1=value1,key2=value2".
	Headers map[string]string

	// Insecure disables TLS on the exporter connection.
	Insecure bool

	// Sampler selects the trace sampler. Supported values: always_on,
	// always_off, traceidratio and their parentbased_ variants.
	// Defaults to always_on.
	Sampler string

	// SamplerArg is the sampler argument (e.g. the ratio).
	SamplerArg string

	// ResourceAttrs holds extra resource attributes,
	// "key1=value1,key2=value2".
	ResourceAttrs map[string]string
}

// LoadFromEnv reads the OTEL_* environment variables into a Config.
func LoadFromEnv() *Config {
	return &Config{
		Enabled:        strings.ToLower(os.Getenv("OTEL_ENABLED")) == "true",
		ServiceName:    getEnvOrDefault("OTEL_SERVICE_NAME", "heap-browser"),
		ServiceVersion: getEnvOrDefault("OTEL_SERVICE_VERSION", "unknown"),
		Endpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Protocol:       getEnvOrDefault("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
		Headers:        parseKeyValuePairs(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		Insecure:       strings.ToLower(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")) == "true",
		Sampler:        os.Getenv("OTEL_TRACES_SAMPLER"),
		SamplerArg:     os.Getenv("OTEL_TRACES_SAMPLER_ARG"),
		ResourceAttrs:  parseKeyValuePairs(os.Getenv("OTEL_RESOURCE_ATTRIBUTES")),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseKeyValuePairs parses "key1=value1,key2=value2" into a map. Values may
// contain '=' since only the first one splits.
func parseKeyValuePairs(s string) map[string]string {
	result := make(map[string]string)
	if s == "" {
		return result
	}

	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		idx := strings.Index(pair, "=")
		if idx <= 0 {
			continue
		}

		key := strings.TrimSpace(pair[:idx])
		value := strings.TrimSpace(pair[idx+1:])
		if key != "" {
			result[key] = value
		}
	}

	return result
}
