package tasks_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/gvault/gvault/internal/instrumentation"
	"github.com/gvault/gvault/internal/server"
	"github.com/gvault/gvault/internal/tasks"
	"github.com/gvault/gvault/internal/tools/common"
)

// RegisterTasksTools registers all Tasks-related tools with the MCP server.
// In read-only mode the tools that mutate tasks or write to the vault are
// skipped.
func RegisterTasksTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTasksTool := mcp.NewTool("tasks_list_tasks",
		mcp.WithDescription("List tasks on the default task list"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("status",
			mcp.Description("Filter by completion state: 'incomplete', 'completed' or 'all' (default: 'incomplete')"),
		),
		mcp.WithString("dueMin",
			mcp.Description("Only tasks due on or after this date (YYYY-MM-DD)"),
		),
		mcp.WithString("dueMax",
			mcp.Description("Only tasks due before this date (YYYY-MM-DD, exclusive)"),
		),
		mcp.WithString("query",
			mcp.Description("Only tasks whose title or notes contain this text (case-insensitive)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of tasks to return (default: 100)"),
		),
	)

	s.AddTool(listTasksTool, common.InstrumentedToolHandlerWithService(
		"tasks_list_tasks", instrumentation.ServiceTasks, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListTasks(ctx, request, sc)
		}))

	getTaskTool := mcp.NewTool("tasks_get_task",
		mcp.WithDescription("Get details of a specific task"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to retrieve"),
		),
	)

	s.AddTool(getTaskTool, common.InstrumentedToolHandlerWithService(
		"tasks_get_task", instrumentation.ServiceTasks, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetTask(ctx, request, sc)
		}))

	if !readOnly {
		if err := RegisterTaskTools(s, sc); err != nil {
			return fmt.Errorf("failed to register task tools: %w", err)
		}
		if err := RegisterExportTools(s, sc); err != nil {
			return fmt.Errorf("failed to register export tools: %w", err)
		}
	}

	return nil
}

// completedFilter maps the status argument to the list filter: nil for
// every task, otherwise the completion state to select.
func completedFilter(status string) (*bool, error) {
	switch status {
	case "", "incomplete":
		completed := false
		return &completed, nil
	case "completed":
		completed := true
		return &completed, nil
	case "all":
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid status %q, must be 'incomplete', 'completed' or 'all'", status)
	}
}

func handleListTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	status := ""
	if statusVal, ok := args["status"].(string); ok {
		status = statusVal
	}
	completed, err := completedFilter(status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := tasks.ListTasksOptions{Completed: completed}

	if dueMinStr, ok := args["dueMin"].(string); ok && dueMinStr != "" {
		dueMin, err := common.ParseDate(dueMinStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid dueMin %q, expected YYYY-MM-DD", dueMinStr)), nil
		}
		opts.DueMin = dueMin
	}
	if dueMaxStr, ok := args["dueMax"].(string); ok && dueMaxStr != "" {
		dueMax, err := common.ParseDate(dueMaxStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid dueMax %q, expected YYYY-MM-DD", dueMaxStr)), nil
		}
		opts.DueMax = dueMax
	}

	if queryVal, ok := args["query"].(string); ok {
		opts.Query = queryVal
	}
	if maxVal, ok := args["maxResults"].(float64); ok && maxVal > 0 {
		opts.MaxResults = int64(maxVal)
	}

	client, err := sc.TasksClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	taskList, err := client.ListTasks(opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
	}

	return common.JSONResult(taskList)
}

func handleGetTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	taskID, ok := args["taskId"].(string)
	if !ok || taskID == "" {
		return mcp.NewToolResultError("taskId is required"), nil
	}

	client, err := sc.TasksClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := client.GetTask(taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get task: %v", err)), nil
	}

	return common.JSONResult(task)
}
