package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/gvault/gvault/internal/config"
	"github.com/gvault/gvault/internal/instrumentation"
	"github.com/gvault/gvault/internal/resources"
	"github.com/gvault/gvault/internal/server"
	"github.com/gvault/gvault/internal/tools/calendar_tools"
	"github.com/gvault/gvault/internal/tools/drive_tools"
	"github.com/gvault/gvault/internal/tools/gmail_tools"
	"github.com/gvault/gvault/internal/tools/tasks_tools"
)

// serveOptions carries the resolved serve configuration into runServe.
type serveOptions struct {
	transport      string
	httpAddr       string
	readOnly       bool
	vaultRoot      string
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Gmail, Calendar,
Tasks, Drive and vault export tools for AI assistants.

Supports multiple transport types:
  - stdio: standard input/output (default)
  - streamable-http: streamable HTTP transport on --http-addr

Safety mode:
  With --read-only only read tools are registered; write operations
  (sending mail, creating and deleting events, tasks and files, vault
  exports) are not available to clients.

Metrics:
  With the streamable-http transport a Prometheus metrics server runs
  on --metrics-addr. Disable it with --metrics-enabled=false or
  GVAULT_METRICS_ENABLED=false.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Environment variables only apply when the flag was not
			// explicitly set.
			if !cmd.Flags().Changed("metrics-enabled") {
				if env := os.Getenv("GVAULT_METRICS_ENABLED"); env != "" {
					parsed, err := strconv.ParseBool(env)
					if err != nil {
						return fmt.Errorf("invalid GVAULT_METRICS_ENABLED value %q (expected true/false)", env)
					}
					opts.metricsEnabled = parsed
				}
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("GVAULT_METRICS_ADDR"); addr != "" {
					opts.metricsAddr = addr
				}
			}
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "Register only read tools; write operations are unavailable")
	cmd.Flags().StringVar(&opts.vaultRoot, "vault", "", "Vault root directory for export tools and vault resources")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", true, "Enable the metrics server (streamable-http only). Can also use GVAULT_METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use GVAULT_METRICS_ADDR env var.")

	return cmd
}

func runServe(opts serveOptions) error {
	// Set up graceful shutdown on SIGINT/SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			// Stdio transport keeps stderr quiet: it may share the
			// terminal with the MCP client.
			if opts.transport != "stdio" {
				slog.Error("instrumentation shutdown failed", "error", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if opts.transport != "stdio" && opts.metricsEnabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			slog.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	serverConfig := server.Config{
		ReadOnly:     opts.readOnly,
		VaultRoot:    config.ResolveVaultRoot(opts.vaultRoot, cliConfig),
		NoteTemplate: noteTemplate(),
	}
	if provider.Enabled() {
		serverConfig.Instrumentation = provider
		serverConfig.AuditLogger = instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging)
	}

	serverContext, err := server.NewServerContext(shutdownCtx, serverConfig)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", "error", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if opts.transport != "stdio" {
				slog.Error("server context shutdown failed", "error", err)
			}
		}
	}()

	serverOpts := []mcpserver.ServerOption{
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	}
	if provider.Enabled() {
		hooks := &mcpserver.Hooks{}
		hooks.AddOnRegisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
			provider.Metrics().IncrementActiveSessions(ctx)
		})
		hooks.AddOnUnregisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
			provider.Metrics().DecrementActiveSessions(ctx)
		})
		serverOpts = append(serverOpts, mcpserver.WithHooks(hooks))
	}

	mcpSrv := mcpserver.NewMCPServer("gvault", version, serverOpts...)

	// Log the mode for visibility (only for non-stdio transports)
	if opts.transport != "stdio" {
		if opts.readOnly {
			slog.Info("starting server in read-only mode")
		} else {
			slog.Info("starting server with write operations enabled")
		}
	}

	if err := registerAllTools(mcpSrv, serverContext, opts.readOnly); err != nil {
		return err
	}

	switch opts.transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runHTTPServer(shutdownCtx, mcpSrv, serverContext, opts, provider)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Gmail",
			register: func() error {
				return gmail_tools.RegisterGmailTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Tasks",
			register: func() error {
				return tasks_tools.RegisterTasksTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Drive",
			register: func() error {
				return drive_tools.RegisterDriveTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Vault Resources",
			register: func() error {
				return resources.RegisterVaultResources(mcpSrv, ctx)
			},
		},
		{
			name: "User Resources",
			register: func() error {
				return resources.RegisterUserResources(mcpSrv, ctx)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, opts serveOptions, provider *instrumentation.Provider) error {
	httpConfig := server.HTTPServerConfig{
		Addr:          opts.httpAddr,
		MCPServer:     mcpSrv,
		ServerContext: serverContext,
	}
	if provider.Enabled() {
		httpConfig.Metrics = provider.Metrics()
	}

	httpServer, err := server.NewHTTPServer(httpConfig)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	fmt.Printf("Streamable HTTP server starting on %s\n", opts.httpAddr)
	fmt.Printf("  MCP endpoint: /mcp\n")
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")
	if opts.metricsEnabled && provider.Enabled() {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", opts.metricsAddr)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}
