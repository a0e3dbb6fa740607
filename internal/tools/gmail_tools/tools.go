package gmail_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/gvault/gvault/internal/instrumentation"
	"github.com/gvault/gvault/internal/server"
	"github.com/gvault/gvault/internal/tools/common"
)

// RegisterGmailTools registers all Gmail tools with the MCP server.
// Tools that write Gmail or the vault are skipped in read-only mode.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if !readOnly {
		if err := RegisterSendTools(s, sc); err != nil {
			return fmt.Errorf("failed to register send tools: %w", err)
		}
		if err := RegisterExportTools(s, sc); err != nil {
			return fmt.Errorf("failed to register export tools: %w", err)
		}
	}

	// List emails tool
	listEmailsTool := mcp.NewTool("gmail_list_emails",
		mcp.WithDescription("List Gmail threads matching a search query"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Description("Gmail search query (default: 'in:inbox'). Supports the full Gmail query syntax, e.g. 'from:user@example.com is:unread'."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of threads to return (default: 10)"),
		),
	)

	s.AddTool(listEmailsTool, common.InstrumentedToolHandlerWithService(
		"gmail_list_emails", instrumentation.ServiceGmail, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEmails(ctx, request, sc)
		}))

	// Get email tool
	getEmailTool := mcp.NewTool("gmail_get_email",
		mcp.WithDescription("Get a Gmail message including its decoded body and attachment metadata"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message to fetch"),
		),
		mcp.WithString("format",
			mcp.Description("What to return: 'full' (default, JSON with metadata and bodies), 'text' or 'html' (body only), 'metadata' (JSON without bodies)"),
		),
	)

	s.AddTool(getEmailTool, common.InstrumentedToolHandlerWithService(
		"gmail_get_email", instrumentation.ServiceGmail, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEmail(ctx, request, sc)
		}))

	return nil
}

func handleListEmails(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	query := "in:inbox"
	if queryVal, ok := args["query"].(string); ok && queryVal != "" {
		query = queryVal
	}

	maxResults := int64(10)
	if maxResultsVal, ok := args["maxResults"].(float64); ok && maxResultsVal > 0 {
		maxResults = int64(maxResultsVal)
	}

	client, err := sc.GmailClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	threads, err := client.ListThreads(query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list emails: %v", err)), nil
	}

	return common.JSONResult(threads)
}

func handleGetEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	format := "full"
	if formatVal, ok := args["format"].(string); ok && formatVal != "" {
		format = formatVal
	}
	switch format {
	case "full", "text", "html", "metadata":
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid format %q, must be 'full', 'text', 'html' or 'metadata'", format)), nil
	}

	client, err := sc.GmailClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if format == "text" || format == "html" {
		body, err := client.GetMessageBody(messageID, format)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get message body: %v", err)), nil
		}
		return mcp.NewToolResultText(body), nil
	}

	detail, err := client.GetMessageDetail(messageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get message: %v", err)), nil
	}
	if format == "metadata" {
		detail.BodyText = ""
		detail.BodyHTML = ""
	}
	return common.JSONResult(detail)
}
