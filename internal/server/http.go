package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/gvault/gvault/internal/instrumentation"
)

const (
	// DefaultHTTPAddr is the default bind address for the HTTP transport.
	DefaultHTTPAddr = ":8080"

	// DefaultHTTPReadHeaderTimeout bounds how long a client may take to
	// send request headers.
	DefaultHTTPReadHeaderTimeout = 10 * time.Second

	// DefaultHTTPIdleTimeout is how long idle keep-alive connections are
	// held open.
	DefaultHTTPIdleTimeout = 120 * time.Second
)

// HTTPServerConfig configures the streamable HTTP transport.
type HTTPServerConfig struct {
	// Addr is the address to bind to (e.g., ":8080").
	Addr string

	// MCPServer is the MCP server to expose on /mcp.
	MCPServer *mcpserver.MCPServer

	// ServerContext backs the health endpoints.
	ServerContext *ServerContext

	// Metrics, when non-nil, records every HTTP request.
	Metrics *instrumentation.Metrics
}

// HTTPServer serves the MCP protocol over streamable HTTP on /mcp,
// alongside health endpoints for Kubernetes probes. Metrics live on
// their own MetricsServer port.
type HTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	httpServer    *http.Server
	healthChecker *HealthChecker
	metrics       *instrumentation.Metrics
	addr          string
}

// NewHTTPServer creates the HTTP transport server.
func NewHTTPServer(config HTTPServerConfig) (*HTTPServer, error) {
	if config.MCPServer == nil {
		return nil, fmt.Errorf("MCP server is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}

	return &HTTPServer{
		mcpServer:     config.MCPServer,
		healthChecker: NewHealthChecker(config.ServerContext),
		metrics:       config.Metrics,
		addr:          config.Addr,
	}, nil
}

// HealthChecker returns the health checker backing /healthz and /readyz.
func (s *HTTPServer) HealthChecker() *HealthChecker {
	return s.healthChecker
}

// Start starts the HTTP server in a blocking manner.
// Call this in a goroutine if you need non-blocking operation.
func (s *HTTPServer) Start() error {
	mux := http.NewServeMux()

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath("/mcp"),
	)
	mux.Handle("/mcp", streamable)

	s.healthChecker.RegisterHealthEndpoints(mux)

	var handler http.Handler = mux
	if s.metrics != nil {
		handler = s.withRequestMetrics(mux)
	}

	// No WriteTimeout: streamable responses can stay open for as long
	// as the client keeps the session.
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadHeaderTimeout: DefaultHTTPReadHeaderTimeout,
		IdleTimeout:       DefaultHTTPIdleTimeout,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server. New requests are
// refused and the health checker reports not ready.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.healthChecker.SetReady(false)
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured address for the HTTP server.
func (s *HTTPServer) Addr() string {
	return s.addr
}

// withRequestMetrics records method, path, status, and duration of every
// request.
func (s *HTTPServer) withRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.metrics.RecordHTTPRequest(r.Context(), r.Method, metricsPath(r.URL.Path), recorder.status, time.Since(start))
	})
}

// metricsPath collapses unknown request paths into a single label value
// to keep HTTP metric cardinality bounded.
func metricsPath(path string) string {
	switch path {
	case "/mcp", "/healthz", "/readyz", "/healthz/detailed":
		return path
	}
	return "other"
}

// statusRecorder captures the response status code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming working through the metrics wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
