package calendar_tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/gvault/gvault/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Config{})
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("result content is %T, want text", result.Content[0])
	}
	return text.Text
}

// TestRegisterCalendarTools tests the registration of Calendar tools
func TestRegisterCalendarTools(t *testing.T) {
	sc := newTestServerContext(t)

	tests := []struct {
		name     string
		readOnly bool
	}{
		{
			name:     "register in read-write mode",
			readOnly: false,
		},
		{
			name:     "register in read-only mode",
			readOnly: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mcpSrv := mcpserver.NewMCPServer("test-server", "1.0.0",
				mcpserver.WithToolCapabilities(true),
			)
			if err := RegisterCalendarTools(mcpSrv, sc, tt.readOnly); err != nil {
				t.Errorf("RegisterCalendarTools() error = %v", err)
			}
		})
	}
}

func TestParseDateTime(t *testing.T) {
	t.Run("RFC3339", func(t *testing.T) {
		got, err := parseDateTime("2025-01-15T14:00:00Z")
		if err != nil {
			t.Fatalf("parseDateTime() unexpected error = %v", err)
		}
		if want := "2025-01-15T14:00:00Z"; got.UTC().Format(time.RFC3339) != want {
			t.Errorf("parseDateTime() = %v, want %s", got, want)
		}
	})

	t.Run("date only", func(t *testing.T) {
		got, err := parseDateTime("2025-01-15")
		if err != nil {
			t.Fatalf("parseDateTime() unexpected error = %v", err)
		}
		if got.Year() != 2025 || got.Month() != time.January || got.Day() != 15 {
			t.Errorf("parseDateTime() = %v, want 2025-01-15", got)
		}
		if got.Hour() != 0 || got.Minute() != 0 {
			t.Errorf("parseDateTime() = %v, want midnight", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := parseDateTime("15.01.2025 14:00"); err == nil {
			t.Fatal("parseDateTime() expected error for invalid input")
		}
	})
}

// TestHandleGetEventValidation tests input validation for handleGetEvent
func TestHandleGetEventValidation(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "calendar_get_event",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := handleGetEvent(ctx, request, sc)
	if err != nil {
		t.Errorf("handleGetEvent() unexpected error = %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("handleGetEvent() should return an error result")
	}
	if got := resultText(t, result); !strings.Contains(got, "eventId is required") {
		t.Errorf("handleGetEvent() = %q, want it to mention eventId", got)
	}
}

// TestHandleCreateEventValidation tests input validation for handleCreateEvent
func TestHandleCreateEventValidation(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantMsg string
	}{
		{
			name: "missing summary",
			args: map[string]interface{}{
				"start": "2025-01-15T14:00:00Z",
				"end":   "2025-01-15T15:00:00Z",
			},
			wantMsg: "summary is required",
		},
		{
			name: "missing start",
			args: map[string]interface{}{
				"summary": "Standup",
				"end":     "2025-01-15T15:00:00Z",
			},
			wantMsg: "start is required",
		},
		{
			name: "invalid start",
			args: map[string]interface{}{
				"summary": "Standup",
				"start":   "tomorrow at noon",
				"end":     "2025-01-15T15:00:00Z",
			},
			wantMsg: "Invalid start",
		},
		{
			name: "missing end",
			args: map[string]interface{}{
				"summary": "Standup",
				"start":   "2025-01-15T14:00:00Z",
			},
			wantMsg: "end is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := mcp.CallToolRequest{
				Params: mcp.CallToolParams{
					Name:      "calendar_create_event",
					Arguments: tt.args,
				},
			}

			result, err := handleCreateEvent(ctx, request, sc)
			if err != nil {
				t.Errorf("handleCreateEvent() unexpected error = %v", err)
			}
			if result == nil || !result.IsError {
				t.Fatal("handleCreateEvent() should return an error result")
			}
			if got := resultText(t, result); !strings.Contains(got, tt.wantMsg) {
				t.Errorf("handleCreateEvent() = %q, want it to contain %q", got, tt.wantMsg)
			}
		})
	}
}

// TestHandleExportDailyValidation tests input validation for handleExportDaily
func TestHandleExportDailyValidation(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "calendar_export_daily",
			Arguments: map[string]interface{}{
				"startDate": "garbage",
			},
		},
	}

	result, err := handleExportDaily(ctx, request, sc)
	if err != nil {
		t.Errorf("handleExportDaily() unexpected error = %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("handleExportDaily() should return an error result")
	}
	if got := resultText(t, result); !strings.Contains(got, "invalid startDate") {
		t.Errorf("handleExportDaily() = %q, want it to mention invalid startDate", got)
	}
}

func TestSplitAttendees(t *testing.T) {
	got := splitAttendees(" a@example.com ,b@example.com,,")
	want := []string{"a@example.com", "b@example.com"}
	if len(got) != len(want) {
		t.Fatalf("splitAttendees() = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("splitAttendees()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
