package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config captures runtime configuration for the API service.
type Config struct {
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type HTTPConfig struct {
	Port          int
	MetricsPath   string
	ShutdownGrace int
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	defaultHTTPPort       = 8080
	defaultMetricsPath    = "/metrics"
	defaultShutdownGrace  = 15
	defaultServiceName    = "receipt-points-api"
	defaultServiceVersion = "0.1.0"
	defaultEnvironment    = "development"
	defaultLogLevel       = "info"
	defaultOTelSampleRate = 1.0
)

// Load reads configuration from environment variables, applying defaults when
// needed.
func Load() (*Config, error) {
	httpCfg, err := loadHTTPConfig()
	if err != nil {
		return nil, fmt.Errorf("loading HTTP config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	return &Config{
		HTTP:      httpCfg,
		Telemetry: telCfg,
		Service:   loadServiceConfig(),
	}, nil
}

func loadHTTPConfig() (HTTPConfig, error) {
	port := defaultHTTPPort
	if value, ok := os.LookupEnv("API_HTTP_PORT"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return HTTPConfig{}, fmt.Errorf("invalid API_HTTP_PORT: %w", err)
		}
		port = parsed
	}

	shutdownGrace := defaultShutdownGrace
	if value, ok := os.LookupEnv("API_SHUTDOWN_GRACE_SECONDS"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return HTTPConfig{}, fmt.Errorf("invalid API_SHUTDOWN_GRACE_SECONDS: %w", err)
		}
		shutdownGrace = parsed
	}

	metricsPath := getEnvOrDefault("API_METRICS_PATH", defaultMetricsPath)

	return HTTPConfig{
		Port:          port,
		MetricsPath:   metricsPath,
		ShutdownGrace: shutdownGrace,
	}, nil
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", defaultLogLevel)
	otelEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	enableTracing := getBoolEnv("OTEL_ENABLE_TRACING", true)
	enableMetrics := getBoolEnv("OTEL_ENABLE_METRICS", true)

	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	return TelemetryConfig{
		LogLevel:      logLevel,
		OTelEndpoint:  otelEndpoint,
		EnableTracing: enableTracing,
		EnableMetrics: enableMetrics,
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("API_SERVICE_NAME", defaultServiceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", defaultServiceVersion),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}
