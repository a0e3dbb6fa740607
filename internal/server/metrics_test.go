package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gvault/gvault/internal/instrumentation"
)

func newTestInstrumentationProvider(t *testing.T, enabled bool) *instrumentation.Provider {
	t.Helper()

	ctx := context.Background()
	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "gvault-test",
		ServiceVersion:  "0.0.0",
		Enabled:         enabled,
		MetricsExporter: instrumentation.ExporterPrometheus,
		TracingExporter: instrumentation.ExporterNone,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestNewMetricsServer(t *testing.T) {
	tests := []struct {
		name     string
		config   MetricsServerConfig
		wantErr  string
		wantAddr string
	}{
		{
			name: "valid config",
			config: MetricsServerConfig{
				Addr:                    ":9090",
				InstrumentationProvider: newTestInstrumentationProvider(t, true),
			},
			wantAddr: ":9090",
		},
		{
			name: "empty addr falls back to default",
			config: MetricsServerConfig{
				InstrumentationProvider: newTestInstrumentationProvider(t, true),
			},
			wantAddr: DefaultMetricsAddr,
		},
		{
			name: "nil provider",
			config: MetricsServerConfig{
				Addr: ":9090",
			},
			wantErr: "instrumentation provider is required",
		},
		{
			name: "disabled provider",
			config: MetricsServerConfig{
				Addr:                    ":9090",
				InstrumentationProvider: newTestInstrumentationProvider(t, false),
			},
			wantErr: "instrumentation provider is not enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewMetricsServer(tt.config)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("NewMetricsServer() error = %v, want error containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMetricsServer() error = %v", err)
			}
			if server.Addr() != tt.wantAddr {
				t.Errorf("Addr() = %q, want %q", server.Addr(), tt.wantAddr)
			}
		})
	}
}

func TestMetricsServer_StartWithReadySignal(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    "127.0.0.1:0",
		InstrumentationProvider: newTestInstrumentationProvider(t, true),
	})
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}

	ready := make(chan struct{})
	serverErr := make(chan error, 1)
	go func() {
		if err := server.StartWithReadySignal(ready); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ready:
	case err := <-serverErr:
		t.Fatalf("server failed before becoming ready: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not signal readiness")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	select {
	case err := <-serverErr:
		if err != nil {
			t.Errorf("server error after shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("server did not stop after shutdown")
	}
}

func TestMetricsServer_ShutdownWithoutStart(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    ":9090",
		InstrumentationProvider: newTestInstrumentationProvider(t, true),
	})
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() without Start() error = %v", err)
	}
}
