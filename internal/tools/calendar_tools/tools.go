package calendar_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/gvault/gvault/internal/instrumentation"
	"github.com/gvault/gvault/internal/server"
	"github.com/gvault/gvault/internal/tools/common"
)

// RegisterCalendarTools registers all Calendar-related tools with the MCP
// server. In read-only mode the tools that mutate events or write to the
// vault are skipped.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List calendar events for a date or date range"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("startDate",
			mcp.Description("First date of the range (YYYY-MM-DD, default: today)"),
		),
		mcp.WithString("endDate",
			mcp.Description("Last date of the range (YYYY-MM-DD, default: startDate)"),
		),
		mcp.WithString("query",
			mcp.Description("Free text search over title, description, location and attendees"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return (default: 50)"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandlerWithService(
		"calendar_list_events", instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	getEventTool := mcp.NewTool("calendar_get_event",
		mcp.WithDescription("Get details of a specific calendar event"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to retrieve"),
		),
	)

	s.AddTool(getEventTool, common.InstrumentedToolHandlerWithService(
		"calendar_get_event", instrumentation.ServiceCalendar, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvent(ctx, request, sc)
		}))

	if !readOnly {
		if err := RegisterEventTools(s, sc); err != nil {
			return fmt.Errorf("failed to register event tools: %w", err)
		}
		if err := RegisterExportTools(s, sc); err != nil {
			return fmt.Errorf("failed to register export tools: %w", err)
		}
	}

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	start, end, err := common.DateRangeFromArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := ""
	if queryVal, ok := args["query"].(string); ok {
		query = queryVal
	}

	maxResults := int64(50)
	if maxVal, ok := args["maxResults"].(float64); ok && maxVal > 0 {
		maxResults = int64(maxVal)
	}

	client, err := sc.CalendarClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := client.ListEvents(start, end.AddDate(0, 0, 1), query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}

	return common.JSONResult(events)
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	client, err := sc.CalendarClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	event, err := client.GetEvent(eventID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get event: %v", err)), nil
	}

	return common.JSONResult(event)
}
