package instrumentation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func attrMap(attrs []slog.Attr) map[string]slog.Attr {
	m := make(map[string]slog.Attr, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a
	}
	return m
}

func TestToolInvocation_Complete(t *testing.T) {
	ti := NewToolInvocation("gmail_list_emails")
	if ti.StartTime.IsZero() {
		t.Fatal("StartTime should be set")
	}

	ti.CompleteSuccess()
	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Error != "" {
		t.Errorf("Error = %q, want empty", ti.Error)
	}

	ti = NewToolInvocation("calendar_create_event")
	ti.CompleteWithError(errors.New("permission denied"))
	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "permission denied" {
		t.Errorf("Error = %q, want %q", ti.Error, "permission denied")
	}
}

func TestToolInvocation_Builders(t *testing.T) {
	ti := NewToolInvocation("drive_list_files").
		WithAccount("work").
		WithService(ServiceDrive, OperationList).
		CompleteSuccess()

	if ti.Account != "work" {
		t.Errorf("Account = %q, want %q", ti.Account, "work")
	}
	if ti.ServiceName != ServiceDrive || ti.Operation != OperationList {
		t.Errorf("service = %q/%q, want %q/%q",
			ti.ServiceName, ti.Operation, ServiceDrive, OperationList)
	}
}

func TestToolInvocation_Status(t *testing.T) {
	ti := NewToolInvocation("test")

	ti.Success = true
	if got := ti.Status(); got != StatusSuccess {
		t.Errorf("Status() = %q, want %q", got, StatusSuccess)
	}

	ti.Success = false
	if got := ti.Status(); got != StatusError {
		t.Errorf("Status() = %q, want %q", got, StatusError)
	}
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ti := NewToolInvocation("test").WithSpanContext(context.Background())
	if ti.TraceID != "" || ti.SpanID != "" {
		t.Errorf("trace context = %q/%q, want empty", ti.TraceID, ti.SpanID)
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation("drive_list_files").
		WithAccount("work").
		WithService(ServiceDrive, OperationList).
		CompleteSuccess()
	ti.TraceID = "abc123"

	m := attrMap(ti.LogAttrs())
	for _, key := range []string{"tool", "duration", "success", "account", "service", "operation", "trace_id"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing attribute %s", key)
		}
	}
}

func TestToolInvocation_LogAttrs_OmitsDefaults(t *testing.T) {
	ti := NewToolInvocation("gmail_list_emails").
		WithAccount("default").
		CompleteSuccess()

	m := attrMap(ti.LogAttrs())
	for _, key := range []string{"account", "service", "operation", "trace_id", "error"} {
		if _, ok := m[key]; ok {
			t.Errorf("attribute %s should be omitted when unset", key)
		}
	}
}

func TestToolInvocation_LogAttrs_RedactsEmails(t *testing.T) {
	ti := NewToolInvocation("calendar_create_event").
		CompleteWithError(errors.New("invalid attendee jane.doe@example.com"))

	m := attrMap(ti.LogAttrs())
	got := m["error"].Value.String()
	if strings.Contains(got, "jane.doe") {
		t.Errorf("error attr leaked address: %q", got)
	}
	if !strings.Contains(got, "<redacted>@example.com") {
		t.Errorf("error attr = %q, want redacted domain", got)
	}
}

func TestToolInvocation_LogAuditAttrs(t *testing.T) {
	ti := NewToolInvocation("calendar_create_event").
		WithAccount("default").
		CompleteWithError(errors.New("invalid attendee jane.doe@example.com"))
	ti.TraceID = "abc123"
	ti.SpanID = "def456"

	m := attrMap(ti.LogAuditAttrs())
	if got := m["account"].Value.String(); got != "default" {
		t.Errorf("account = %q, want %q", got, "default")
	}
	if got := m["error"].Value.String(); got != "invalid attendee jane.doe@example.com" {
		t.Errorf("error = %q, want unredacted text", got)
	}
	if got := m["span_id"].Value.String(); got != "def456" {
		t.Errorf("span_id = %q, want %q", got, "def456")
	}
}

func TestRedactEmails(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no address",
			input: "calendar not found",
			want:  "calendar not found",
		},
		{
			name:  "single address",
			input: "cannot share with bob@corp.example.org",
			want:  "cannot share with <redacted>@corp.example.org",
		},
		{
			name:  "multiple addresses",
			input: "a@one.example failed, b@two.example failed",
			want:  "<redacted>@one.example failed, <redacted>@two.example failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactEmails(tt.input); got != tt.want {
				t.Errorf("redactEmails(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	newLogger := func(buf *bytes.Buffer) *slog.Logger {
		return slog.New(slog.NewTextHandler(buf, nil))
	}

	t.Run("success logs tool_executed", func(t *testing.T) {
		var buf bytes.Buffer
		al := NewAuditLogger(newLogger(&buf))

		al.LogToolInvocation(NewToolInvocation("gmail_list_emails").CompleteSuccess())

		if !strings.Contains(buf.String(), "tool_executed") {
			t.Errorf("output missing tool_executed: %s", buf.String())
		}
	})

	t.Run("failure logs tool_failed and redacts", func(t *testing.T) {
		var buf bytes.Buffer
		al := NewAuditLogger(newLogger(&buf))

		al.LogToolInvocation(NewToolInvocation("gmail_send_email").
			CompleteWithError(errors.New("rejected recipient eve@example.com")))

		out := buf.String()
		if !strings.Contains(out, "tool_failed") {
			t.Errorf("output missing tool_failed: %s", out)
		}
		if strings.Contains(out, "eve@example.com") {
			t.Errorf("output leaked address: %s", out)
		}
	})

	t.Run("include PII keeps addresses", func(t *testing.T) {
		var buf bytes.Buffer
		al := NewAuditLoggerWithConfig(newLogger(&buf), AuditLoggingConfig{
			Enabled:    true,
			IncludePII: true,
		})

		al.LogToolInvocation(NewToolInvocation("gmail_send_email").
			CompleteWithError(errors.New("rejected recipient eve@example.com")))

		if !strings.Contains(buf.String(), "eve@example.com") {
			t.Errorf("output should keep address: %s", buf.String())
		}
	})

	t.Run("disabled logs nothing", func(t *testing.T) {
		var buf bytes.Buffer
		al := NewAuditLoggerWithConfig(newLogger(&buf), AuditLoggingConfig{Enabled: false})

		al.LogToolInvocation(NewToolInvocation("gmail_list_emails").CompleteSuccess())

		if buf.Len() != 0 {
			t.Errorf("disabled logger wrote output: %s", buf.String())
		}
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		al := NewAuditLogger(nil)
		if al.logger == nil {
			t.Fatal("logger should fall back to slog.Default")
		}
	})
}
