package calendar_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/gvault/gvault/internal/calendar"
	"github.com/gvault/gvault/internal/instrumentation"
	"github.com/gvault/gvault/internal/server"
	"github.com/gvault/gvault/internal/tools/common"
	"github.com/gvault/gvault/internal/vault"
)

// RegisterExportTools registers the daily note export tool with the MCP
// server.
func RegisterExportTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	exportDailyTool := mcp.NewTool("calendar_export_daily",
		mcp.WithDescription("Export calendar events into the vault's daily notes, one note per date. Checked items in existing notes keep their state."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("startDate",
			mcp.Description("First date to export (YYYY-MM-DD, default: today)"),
		),
		mcp.WithString("endDate",
			mcp.Description("Last date to export (YYYY-MM-DD, default: startDate)"),
		),
		mcp.WithString("query",
			mcp.Description("Only export events matching this free text search"),
		),
	)

	s.AddTool(exportDailyTool, common.InstrumentedToolHandler(
		"calendar_export_daily", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleExportDaily(ctx, request, sc)
		}))

	return nil
}

func handleExportDaily(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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

	client, err := sc.CalendarClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	v, err := sc.Vault()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	exporter := vault.NewCalendarExporter(v)
	exporter.SetTemplate(sc.NoteTemplate())

	started := time.Now()
	summary := exporter.ExportRange(start, end, func(date time.Time) ([]vault.Event, error) {
		events, err := client.ListEventsForDay(date, query)
		if err != nil {
			return nil, err
		}
		return calendar.VaultEvents(events), nil
	})

	var exportErr error
	if len(summary.Failures) > 0 {
		exportErr = fmt.Errorf("%d of %d dates failed", len(summary.Failures),
			len(summary.Failures)+len(summary.ExportedDates))
	}
	common.RecordVaultExport(ctx, sc, instrumentation.EntityCalendar, exportErr, started)

	return common.JSONResult(summary)
}
