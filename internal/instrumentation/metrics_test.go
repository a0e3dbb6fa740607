package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
)

func newTestMetrics(t *testing.T, detailedLabels bool) *Metrics {
	t.Helper()

	m, err := NewMetrics(noop.NewMeterProvider().Meter("gvault-test"), detailedLabels)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return m
}

func TestMetrics_Recorders(t *testing.T) {
	// The noop meter cannot surface recorded values; these verify the
	// recorders accept the label sets the server uses without panics.
	ctx := context.Background()
	m := newTestMetrics(t, false)

	m.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	m.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)

	m.RecordGoogleAPIOperation(ctx, ServiceGmail, OperationList, StatusSuccess, 200*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceCalendar, OperationCreate, StatusError, 500*time.Millisecond)

	m.RecordOAuthAuth(ctx, OAuthResultSuccess)
	m.RecordOAuthAuth(ctx, OAuthResultFailure)

	m.RecordToolInvocation(ctx, "gmail_list_emails", StatusSuccess, "", 100*time.Millisecond)
	m.RecordToolInvocation(ctx, "calendar_create_event", StatusError, "work", 500*time.Millisecond)

	m.RecordVaultExport(ctx, EntityCalendar, StatusSuccess, 300*time.Millisecond)
	m.RecordVaultExport(ctx, EntityTasks, StatusSuccess, 150*time.Millisecond)
	m.RecordVaultExport(ctx, EntityEmail, StatusError, 2*time.Second)

	m.IncrementActiveSessions(ctx)
	m.IncrementActiveSessions(ctx)
	m.DecrementActiveSessions(ctx)
}

func TestMetrics_DetailedLabels(t *testing.T) {
	ctx := context.Background()

	// Account labels are dropped without detailed labels and included
	// with them; both paths must record cleanly.
	newTestMetrics(t, false).RecordToolInvocation(ctx, "gmail_list_emails", StatusSuccess, "work", 100*time.Millisecond)
	newTestMetrics(t, true).RecordToolInvocation(ctx, "gmail_list_emails", StatusSuccess, "work", 100*time.Millisecond)
}

func TestMetrics_ZeroValueIsNoOp(t *testing.T) {
	ctx := context.Background()
	var m Metrics

	// Disabled providers hand out a zero-value recorder; every method
	// must be safe on it.
	m.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceGmail, OperationList, StatusSuccess, 200*time.Millisecond)
	m.RecordOAuthAuth(ctx, OAuthResultSuccess)
	m.RecordToolInvocation(ctx, "test_tool", StatusSuccess, "", 100*time.Millisecond)
	m.RecordVaultExport(ctx, EntityCalendar, StatusSuccess, 100*time.Millisecond)
	m.IncrementActiveSessions(ctx)
	m.DecrementActiveSessions(ctx)
}
