package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/gvault/gvault/internal/server"
)

// RegisterVaultResources registers the daily note resources with the MCP
// server.
func RegisterVaultResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	todayResource := mcp.NewResource(
		"vault://daily/today",
		"Today's Daily Note",
		mcp.WithResourceDescription("The vault's daily note for the current date"),
		mcp.WithMIMEType("text/markdown"),
	)

	s.AddResource(todayResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleDailyToday(ctx, request, sc)
	})

	return nil
}

// handleDailyToday returns today's daily note. A date with no note yet
// yields a marker line instead of an error so clients can tell "no note"
// from a read failure.
func handleDailyToday(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	v, err := sc.Vault()
	if err != nil {
		return nil, err
	}

	today := time.Now()
	content, err := v.ReadDailyNote(today)
	if err != nil {
		return nil, fmt.Errorf("failed to read daily note: %w", err)
	}

	if content == "" {
		content = fmt.Sprintf("No daily note exists for %s yet.\n", today.Format("2006-01-02"))
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/markdown",
			Text:     content,
		},
	}, nil
}
