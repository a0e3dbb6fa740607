package gmail_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/gvault/gvault/internal/instrumentation"
	"github.com/gvault/gvault/internal/server"
	"github.com/gvault/gvault/internal/tools/batch"
	"github.com/gvault/gvault/internal/tools/common"
	"github.com/gvault/gvault/internal/vault"
)

// RegisterExportTools registers the thread export tool with the MCP server.
func RegisterExportTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	exportThreadsTool := mcp.NewTool("gmail_export_threads",
		mcp.WithDescription("Export one or more Gmail threads as markdown notes in the vault"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("threadIds",
			mcp.Required(),
			mcp.Description("Thread ID (string) or array of thread IDs to export"),
		),
		mcp.WithBoolean("includeAttachments",
			mcp.Description("Whether to save attachments next to the note (default: false)"),
		),
	)

	s.AddTool(exportThreadsTool, common.InstrumentedToolHandler(
		"gmail_export_threads", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleExportThreads(ctx, request, sc)
		}))

	return nil
}

func handleExportThreads(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	threadIDs, err := batch.ParseStringOrArray(args["threadIds"], "threadIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	includeAttachments := false
	if val, ok := args["includeAttachments"].(bool); ok {
		includeAttachments = val
	}

	client, err := sc.GmailClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	v, err := sc.Vault()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	exporter := vault.NewEmailExporter(v)
	exporter.SetSaveAttachments(includeAttachments)

	results := batch.ProcessBatch(threadIDs, func(threadID string) (string, error) {
		start := time.Now()

		messages, err := client.ThreadMessages(threadID, includeAttachments)
		if err == nil && len(messages) == 0 {
			err = fmt.Errorf("thread %s has no messages", threadID)
		}

		var path string
		if err == nil {
			path, err = exporter.ExportThread(messages)
		}

		common.RecordVaultExport(ctx, sc, instrumentation.EntityEmail, err, start)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Exported to %s", path), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}
