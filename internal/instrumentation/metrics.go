package instrumentation

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrTool      = "tool"
	attrAccount   = "account"
	attrEntity    = "entity"
)

// Histogram bucket boundaries in seconds. HTTP requests complete fast;
// tool and API operations can wait on Google for much longer.
var (
	httpDurationBuckets      = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0}
	operationDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
)

// Metrics records the server's observability metrics. The zero value is
// a no-op recorder, which is what disabled providers hand out.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	oauthAuthTotal metric.Int64Counter

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	vaultExportsTotal   metric.Int64Counter
	vaultExportDuration metric.Float64Histogram

	// detailedLabels opts into high-cardinality labels such as the
	// account name on tool metrics.
	detailedLabels bool
}

// NewMetrics registers all instruments on meter.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{detailedLabels: detailedLabels}

	instruments := []struct {
		counter   *metric.Int64Counter
		histogram *metric.Float64Histogram
		gauge     *metric.Int64UpDownCounter
		name      string
		desc      string
		unit      string
		buckets   []float64
	}{
		{counter: &m.httpRequestsTotal, name: "http_requests_total",
			desc: "Total number of HTTP requests", unit: "{request}"},
		{histogram: &m.httpRequestDuration, name: "http_request_duration_seconds",
			desc: "HTTP request duration in seconds", unit: "s", buckets: httpDurationBuckets},
		{gauge: &m.activeSessions, name: "active_sessions",
			desc: "Number of active MCP sessions", unit: "{session}"},
		{counter: &m.googleAPIOperationsTotal, name: "google_api_operations_total",
			desc: "Total number of Google API operations", unit: "{operation}"},
		{histogram: &m.googleAPIOperationDuration, name: "google_api_operation_duration_seconds",
			desc: "Google API operation duration in seconds", unit: "s", buckets: operationDurationBuckets},
		{counter: &m.oauthAuthTotal, name: "oauth_auth_total",
			desc: "Total number of OAuth authentication attempts", unit: "{attempt}"},
		{counter: &m.toolInvocationsTotal, name: "mcp_tool_invocations_total",
			desc: "Total number of MCP tool invocations", unit: "{invocation}"},
		{histogram: &m.toolDuration, name: "mcp_tool_duration_seconds",
			desc: "MCP tool execution duration in seconds", unit: "s", buckets: operationDurationBuckets},
		{counter: &m.vaultExportsTotal, name: "vault_exports_total",
			desc: "Total number of vault export runs", unit: "{export}"},
		{histogram: &m.vaultExportDuration, name: "vault_export_duration_seconds",
			desc: "Vault export duration in seconds", unit: "s", buckets: operationDurationBuckets},
	}

	for _, inst := range instruments {
		var err error
		switch {
		case inst.counter != nil:
			*inst.counter, err = meter.Int64Counter(inst.name,
				metric.WithDescription(inst.desc), metric.WithUnit(inst.unit))
		case inst.histogram != nil:
			*inst.histogram, err = meter.Float64Histogram(inst.name,
				metric.WithDescription(inst.desc), metric.WithUnit(inst.unit),
				metric.WithExplicitBucketBoundaries(inst.buckets...))
		case inst.gauge != nil:
			*inst.gauge, err = meter.Int64UpDownCounter(inst.name,
				metric.WithDescription(inst.desc), metric.WithUnit(inst.unit))
		}
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordHTTPRequest records one HTTP request. path should come through
// a bounded mapping, not the raw request path.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)

	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation records one Google API operation by service
// (gmail, calendar, tasks, drive), operation, and status.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.googleAPIOperationsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)

	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordOAuthAuth records an OAuth authentication attempt. result is one
// of the OAuthResult constants.
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m.oauthAuthTotal == nil {
		return
	}

	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordToolInvocation records one MCP tool invocation. The account
// label is only added when detailed labels are enabled; account names
// are caller-chosen and therefore unbounded.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m.toolInvocationsTotal == nil {
		return
	}

	kvs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		kvs = append(kvs, attribute.String(attrAccount, account))
	}
	attrs := metric.WithAttributes(kvs...)

	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordVaultExport records one vault export run by entity type
// (calendar, tasks, email) and status.
func (m *Metrics) RecordVaultExport(ctx context.Context, entity, status string, duration time.Duration) {
	if m.vaultExportsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrEntity, entity),
		attribute.String(attrStatus, status),
	)

	m.vaultExportsTotal.Add(ctx, 1, attrs)
	m.vaultExportDuration.Record(ctx, duration.Seconds(), attrs)
}

// IncrementActiveSessions bumps the active MCP session gauge.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions drops the active MCP session gauge.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, -1)
}
