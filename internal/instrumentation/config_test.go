package instrumentation

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	for _, key := range []string{
		"OTEL_SERVICE_NAME",
		"GVAULT_OTEL_ENABLED",
		"GVAULT_METRICS_EXPORTER",
		"GVAULT_TRACING_EXPORTER",
		"OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(key, "")
	}

	config := DefaultConfig()

	if config.ServiceName != "gvault" {
		t.Errorf("ServiceName = %q, want %q", config.ServiceName, "gvault")
	}
	if !config.Enabled {
		t.Error("Enabled should default to true")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterPrometheus)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want %q", config.TracingExporter, ExporterNone)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("TraceSamplingRate = %f, want 0.1", config.TraceSamplingRate)
	}
	if !config.AuditLogging.Enabled {
		t.Error("AuditLogging.Enabled should default to true")
	}
	if config.AuditLogging.IncludePII {
		t.Error("AuditLogging.IncludePII should default to false")
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "gvault-staging")
	t.Setenv("GVAULT_OTEL_ENABLED", "false")
	t.Setenv("GVAULT_METRICS_EXPORTER", "stdout")
	t.Setenv("GVAULT_TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("GVAULT_AUDIT_LOGGING_INCLUDE_PII", "true")

	config := DefaultConfig()

	if config.ServiceName != "gvault-staging" {
		t.Errorf("ServiceName = %q, want %q", config.ServiceName, "gvault-staging")
	}
	if config.Enabled {
		t.Error("Enabled should be false")
	}
	if config.MetricsExporter != ExporterStdout {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterStdout)
	}
	if config.TracingExporter != ExporterStdout {
		t.Errorf("TracingExporter = %q, want %q", config.TracingExporter, ExporterStdout)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("TraceSamplingRate = %f, want 0.5", config.TraceSamplingRate)
	}
	if !config.AuditLogging.IncludePII {
		t.Error("AuditLogging.IncludePII should be true")
	}
}

func TestDefaultConfig_InvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("GVAULT_OTEL_ENABLED", "not-a-bool")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "not-a-float")

	config := DefaultConfig()

	if !config.Enabled {
		t.Error("unparsable GVAULT_OTEL_ENABLED should fall back to true")
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("TraceSamplingRate = %f, want default 0.1", config.TraceSamplingRate)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "prometheus metrics without tracing",
			config: Config{
				ServiceName:     "gvault",
				Enabled:         true,
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterNone,
			},
		},
		{
			name: "otlp tracing with endpoint",
			config: Config{
				ServiceName:     "gvault",
				Enabled:         true,
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterOTLP,
				OTLPEndpoint:    "localhost:4318",
			},
		},
		{
			name:    "negative sampling rate",
			config:  Config{TraceSamplingRate: -0.5},
			wantErr: "sampling rate",
		},
		{
			name:    "sampling rate above one",
			config:  Config{TraceSamplingRate: 1.5},
			wantErr: "sampling rate",
		},
		{
			name:    "unknown metrics exporter",
			config:  Config{MetricsExporter: "invalid"},
			wantErr: "invalid metrics exporter",
		},
		{
			name:    "unknown tracing exporter",
			config:  Config{TracingExporter: "invalid"},
			wantErr: "invalid tracing exporter",
		},
		{
			name:    "otlp tracing without endpoint",
			config:  Config{TracingExporter: ExporterOTLP},
			wantErr: "OTLP endpoint is required",
		},
		{
			name:    "otlp metrics without endpoint",
			config:  Config{MetricsExporter: ExporterOTLP},
			wantErr: "OTLP endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("GVAULT_TEST_STRING", "value")
	t.Setenv("GVAULT_TEST_BOOL", "true")
	t.Setenv("GVAULT_TEST_BOOL_BAD", "not-a-bool")
	t.Setenv("GVAULT_TEST_FLOAT", "0.75")
	t.Setenv("GVAULT_TEST_FLOAT_BAD", "not-a-float")

	if v := getEnvOrDefault("GVAULT_TEST_STRING", "default"); v != "value" {
		t.Errorf("getEnvOrDefault = %q, want %q", v, "value")
	}
	if v := getEnvOrDefault("GVAULT_TEST_MISSING", "default"); v != "default" {
		t.Errorf("getEnvOrDefault = %q, want %q", v, "default")
	}

	if !getEnvBoolOrDefault("GVAULT_TEST_BOOL", false) {
		t.Error("getEnvBoolOrDefault should parse true")
	}
	if !getEnvBoolOrDefault("GVAULT_TEST_BOOL_BAD", true) {
		t.Error("getEnvBoolOrDefault should fall back on unparsable values")
	}

	if v := getEnvFloatOrDefault("GVAULT_TEST_FLOAT", 0.5); v != 0.75 {
		t.Errorf("getEnvFloatOrDefault = %f, want 0.75", v)
	}
	if v := getEnvFloatOrDefault("GVAULT_TEST_FLOAT_BAD", 0.5); v != 0.5 {
		t.Errorf("getEnvFloatOrDefault = %f, want default 0.5", v)
	}
}
