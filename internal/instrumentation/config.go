package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the OpenTelemetry instrumentation configuration.
type Config struct {
	// ServiceName identifies the service (default: gvault).
	ServiceName string

	// ServiceVersion is the running release version.
	ServiceVersion string

	// ServiceInstanceID identifies this instance (default: hostname).
	ServiceInstanceID string

	// Enabled turns metrics and tracing on (default: true).
	Enabled bool

	// MetricsExporter is prometheus, otlp, or stdout (default:
	// prometheus).
	MetricsExporter string

	// TracingExporter is otlp, stdout, or none (default: none).
	TracingExporter string

	// OTLPEndpoint is the collector endpoint without a protocol
	// prefix, e.g. "localhost:4318".
	OTLPEndpoint string

	// OTLPInsecure sends OTLP over plain HTTP instead of TLS. Only for
	// local collectors.
	OTLPInsecure bool

	// TraceSamplingRate is the trace sampling ratio, 0.0 to 1.0
	// (default: 0.1).
	TraceSamplingRate float64

	// DetailedLabels adds high-cardinality labels such as account
	// names to metrics (default: false).
	DetailedLabels bool

	// AuditLogging configures per-invocation audit logging.
	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig configures the tool invocation audit log.
type AuditLoggingConfig struct {
	// Enabled turns audit logging on (default: true).
	Enabled bool

	// IncludePII logs account names and unredacted error text. With it
	// off, email addresses in errors are reduced to their domain.
	IncludePII bool

	// LogLevel is the slog level for audit lines (default: info).
	LogLevel string
}

// DefaultConfig builds a Config from the GVAULT_* and OTEL_*
// environment variables, falling back to defaults.
func DefaultConfig() Config {
	config := Config{
		ServiceName:       getEnvOrDefault("OTEL_SERVICE_NAME", "gvault"),
		ServiceVersion:    "unknown",
		ServiceInstanceID: getEnvOrDefault("OTEL_SERVICE_INSTANCE_ID", ""),
		Enabled:           getEnvBoolOrDefault("GVAULT_OTEL_ENABLED", true),
		MetricsExporter:   getEnvOrDefault("GVAULT_METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   getEnvOrDefault("GVAULT_TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: getEnvFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", 0.1),
		DetailedLabels:    getEnvBoolOrDefault("GVAULT_METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    getEnvBoolOrDefault("GVAULT_AUDIT_LOGGING_ENABLED", true),
			IncludePII: getEnvBoolOrDefault("GVAULT_AUDIT_LOGGING_INCLUDE_PII", false),
			LogLevel:   getEnvOrDefault("GVAULT_AUDIT_LOGGING_LEVEL", "info"),
		},
	}

	return config
}

// Validate checks the exporter names, endpoint requirements, and the
// sampling rate bounds.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	validMetricsExporters := map[string]bool{ExporterPrometheus: true, ExporterOTLP: true, ExporterStdout: true}
	if c.MetricsExporter != "" && !validMetricsExporters[c.MetricsExporter] {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	validTracingExporters := map[string]bool{ExporterOTLP: true, ExporterStdout: true, ExporterNone: true}
	if c.TracingExporter != "" && !validTracingExporters[c.TracingExporter] {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.TracingExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
	}
	if c.MetricsExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// Constants for metric label values.
const (
	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// OAuth result values
	OAuthResultSuccess = "success"
	OAuthResultFailure = "failure"

	// Google service names
	ServiceGmail    = "gmail"
	ServiceCalendar = "calendar"
	ServiceDrive    = "drive"
	ServiceTasks    = "tasks"

	// Vault export entity types
	EntityCalendar = "calendar"
	EntityTasks    = "tasks"
	EntityEmail    = "email"

	// Exporter types
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)
