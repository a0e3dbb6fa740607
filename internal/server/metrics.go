package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gvault/gvault/internal/instrumentation"
)

// DefaultMetricsAddr is the default bind address of the metrics server.
const DefaultMetricsAddr = ":9090"

// DefaultShutdownTimeout bounds graceful server shutdown.
const DefaultShutdownTimeout = 30 * time.Second

const (
	metricsReadHeaderTimeout = 10 * time.Second
	metricsWriteTimeout      = 10 * time.Second
	metricsIdleTimeout       = 60 * time.Second
)

// MetricsServerConfig configures a MetricsServer.
type MetricsServerConfig struct {
	// Addr is the bind address; empty selects DefaultMetricsAddr.
	Addr string

	// InstrumentationProvider must be enabled, otherwise there are no
	// metrics to serve.
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer serves Prometheus metrics on a dedicated port, separate
// from the MCP transport so that scraping never interferes with tool
// traffic.
type MetricsServer struct {
	httpServer *http.Server
	addr       string
}

// NewMetricsServer creates a metrics server exposing /metrics and its
// own /healthz.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.InstrumentationProvider == nil {
		return nil, fmt.Errorf("instrumentation provider is required for metrics server")
	}
	if !config.InstrumentationProvider.Enabled() {
		return nil, fmt.Errorf("instrumentation provider is not enabled")
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultMetricsAddr
	}

	return &MetricsServer{addr: addr}, nil
}

func (s *MetricsServer) buildServer() *http.Server {
	mux := http.NewServeMux()

	// The otel prometheus exporter registers on the global Prometheus
	// registry, which promhttp.Handler() serves.
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
		WriteTimeout:      metricsWriteTimeout,
		IdleTimeout:       metricsIdleTimeout,
	}
}

// Start serves until the server stops. Run it in a goroutine for
// non-blocking use.
func (s *MetricsServer) Start() error {
	s.httpServer = s.buildServer()
	return s.httpServer.ListenAndServe()
}

// StartWithReadySignal binds the listener, closes ready, then serves
// until the server stops. The ready signal lets callers distinguish a
// slow start from a failed bind.
func (s *MetricsServer) StartWithReadySignal(ready chan<- struct{}) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.httpServer = s.buildServer()
	close(ready)
	return s.httpServer.Serve(listener)
}

// Shutdown gracefully stops the server. Safe before Start.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured bind address.
func (s *MetricsServer) Addr() string {
	return s.addr
}
