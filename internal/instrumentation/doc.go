// Package instrumentation provides OpenTelemetry metrics, tracing, and
// audit logging for the gvault MCP server.
//
// # Metrics
//
//   - http_requests_total, http_request_duration_seconds: HTTP traffic
//     on the streamable transport
//   - active_sessions: currently connected MCP sessions
//   - google_api_operations_total, google_api_operation_duration_seconds:
//     Google API operations by service and operation
//   - oauth_auth_total: OAuth authentication attempts by result
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds: tool calls
//     by tool name and status
//   - vault_exports_total, vault_export_duration_seconds: vault export
//     runs by entity type
//
// # Tracing
//
// Tool invocations run under tool.<name> server spans with nested
// google.<service>.<operation> client spans. The trace and span ids
// also land on the audit log lines.
//
// # Configuration
//
// Configuration comes from the environment:
//
//   - GVAULT_OTEL_ENABLED: enable instrumentation (default: true)
//   - GVAULT_METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - GVAULT_TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - GVAULT_METRICS_DETAILED_LABELS: add account labels (default: false)
//   - GVAULT_AUDIT_LOGGING_ENABLED: audit log tool calls (default: true)
//   - GVAULT_AUDIT_LOGGING_INCLUDE_PII: keep addresses in audit lines (default: false)
//   - OTEL_SERVICE_NAME, OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_TRACES_SAMPLER_ARG
//
// # Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordVaultExport(ctx, instrumentation.EntityCalendar,
//		instrumentation.StatusSuccess, time.Since(start))
package instrumentation
