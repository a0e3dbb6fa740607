// Package server provides the MCP server context and the HTTP servers
// that carry the transports for gvault.
//
// # Key Components
//
// ServerContext manages Google API clients with lazy initialization and
// caching. Each (service, account) pair gets one client, created on
// first use from the configured token provider or the on-disk token
// cache. The context also carries the vault configuration shared by the
// export tools and the optional instrumentation hooks (metrics, audit
// logging) that the tool middleware consumes.
//
// HTTPServer exposes the MCP protocol over streamable HTTP on /mcp,
// together with health endpoints for Kubernetes probes (/healthz,
// /readyz, /healthz/detailed). Readiness fails while shutting down and
// when a configured vault directory has gone missing.
//
// MetricsServer serves Prometheus metrics on a dedicated port so that
// scraping stays off the MCP transport. It is started only for the HTTP
// transport.
package server
