package gmail_tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvault/gvault/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Config{})
	require.NoError(t, err, "Failed to create server context")
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "result content is %T, want text", result.Content[0])
	return text.Text
}

// TestRegisterGmailTools tests the registration of Gmail tools
func TestRegisterGmailTools(t *testing.T) {
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
			assert.NoError(t, RegisterGmailTools(mcpSrv, sc, tt.readOnly))
		})
	}
}

// TestHandleGetEmailValidation tests input validation for handleGetEmail
func TestHandleGetEmailValidation(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantMsg string
	}{
		{
			name:    "missing messageId",
			args:    map[string]interface{}{},
			wantMsg: "messageId is required",
		},
		{
			name: "empty messageId",
			args: map[string]interface{}{
				"messageId": "",
			},
			wantMsg: "messageId is required",
		},
		{
			name: "invalid format",
			args: map[string]interface{}{
				"messageId": "msg-1",
				"format":    "pdf",
			},
			wantMsg: "invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := mcp.CallToolRequest{
				Params: mcp.CallToolParams{
					Name:      "gmail_get_email",
					Arguments: tt.args,
				},
			}

			result, err := handleGetEmail(ctx, request, sc)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError, "handleGetEmail() should return an error result")
			assert.Contains(t, resultText(t, result), tt.wantMsg)
		})
	}
}

// TestHandleSendEmailValidation tests input validation for handleSendEmail
func TestHandleSendEmailValidation(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantMsg string
	}{
		{
			name: "missing to",
			args: map[string]interface{}{
				"subject": "Hello",
				"body":    "World",
			},
			wantMsg: "'to' field is required",
		},
		{
			name: "empty to",
			args: map[string]interface{}{
				"to":      "",
				"subject": "Hello",
				"body":    "World",
			},
			wantMsg: "'to' field is required",
		},
		{
			name: "missing subject",
			args: map[string]interface{}{
				"to":   "a@example.com",
				"body": "World",
			},
			wantMsg: "'subject' field is required",
		},
		{
			name: "missing body",
			args: map[string]interface{}{
				"to":      "a@example.com",
				"subject": "Hello",
			},
			wantMsg: "'body' field is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := mcp.CallToolRequest{
				Params: mcp.CallToolParams{
					Name:      "gmail_send_email",
					Arguments: tt.args,
				},
			}

			result, err := handleSendEmail(ctx, request, sc)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError, "handleSendEmail() should return an error result")
			assert.Contains(t, resultText(t, result), tt.wantMsg)
		})
	}
}

// TestHandleExportThreadsValidation tests input validation for handleExportThreads
func TestHandleExportThreadsValidation(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "gmail_export_threads",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := handleExportThreads(ctx, request, sc)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError, "handleExportThreads() should return an error result")
	assert.Contains(t, resultText(t, result), "threadIds")
}

func TestSplitEmailAddresses(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single address",
			input: "a@example.com",
			want:  []string{"a@example.com"},
		},
		{
			name:  "multiple addresses",
			input: "a@example.com, b@example.com",
			want:  []string{"a@example.com", "b@example.com"},
		},
		{
			name:  "extra whitespace",
			input: "  a@example.com ,b@example.com  ",
			want:  []string{"a@example.com", "b@example.com"},
		},
		{
			name:  "empty segments dropped",
			input: "a@example.com,,b@example.com,",
			want:  []string{"a@example.com", "b@example.com"},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitEmailAddresses(tt.input))
		})
	}
}
