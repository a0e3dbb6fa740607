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

// RegisterTaskTools registers the task mutation tools with the MCP server.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	createTaskTool := mcp.NewTool("tasks_create_task",
		mcp.WithDescription("Create a new task on the default task list"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("notes",
			mcp.Description("Task notes"),
		),
		mcp.WithString("due",
			mcp.Description("Due date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(createTaskTool, common.InstrumentedToolHandlerWithService(
		"tasks_create_task", instrumentation.ServiceTasks, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateTask(ctx, request, sc)
		}))

	updateTaskTool := mcp.NewTool("tasks_update_task",
		mcp.WithDescription("Update an existing task. Only the provided fields are changed."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to update"),
		),
		mcp.WithString("title",
			mcp.Description("New task title"),
		),
		mcp.WithString("notes",
			mcp.Description("New task notes"),
		),
		mcp.WithString("due",
			mcp.Description("New due date (YYYY-MM-DD)"),
		),
	)

	s.AddTool(updateTaskTool, common.InstrumentedToolHandlerWithService(
		"tasks_update_task", instrumentation.ServiceTasks, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateTask(ctx, request, sc)
		}))

	completeTaskTool := mcp.NewTool("tasks_complete_task",
		mcp.WithDescription("Mark a task as completed"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to complete"),
		),
	)

	s.AddTool(completeTaskTool, common.InstrumentedToolHandlerWithService(
		"tasks_complete_task", instrumentation.ServiceTasks, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCompleteTask(ctx, request, sc)
		}))

	uncompleteTaskTool := mcp.NewTool("tasks_uncomplete_task",
		mcp.WithDescription("Mark a completed task as not completed"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to uncomplete"),
		),
	)

	s.AddTool(uncompleteTaskTool, common.InstrumentedToolHandlerWithService(
		"tasks_uncomplete_task", instrumentation.ServiceTasks, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUncompleteTask(ctx, request, sc)
		}))

	deleteTaskTool := mcp.NewTool("tasks_delete_task",
		mcp.WithDescription("Delete a task from the default task list"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to delete"),
		),
	)

	s.AddTool(deleteTaskTool, common.InstrumentedToolHandlerWithService(
		"tasks_delete_task", instrumentation.ServiceTasks, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteTask(ctx, request, sc)
		}))

	return nil
}

func taskConfirmation(action string, task *tasks.Task) string {
	result := fmt.Sprintf("Successfully %s task: %s\n", action, task.Title)
	result += fmt.Sprintf("ID: %s\n", task.ID)
	result += fmt.Sprintf("Status: %s\n", task.Status)
	if !task.Due.IsZero() {
		result += fmt.Sprintf("Due: %s\n", task.Due.Format("2006-01-02"))
	}
	return result
}

func handleCreateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	input := tasks.TaskInput{Title: title}

	if notes, ok := args["notes"].(string); ok {
		input.Notes = notes
	}
	if dueStr, ok := args["due"].(string); ok && dueStr != "" {
		due, err := common.ParseDate(dueStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid due date %q, expected YYYY-MM-DD", dueStr)), nil
		}
		input.Due = due
	}

	client, err := sc.TasksClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := client.CreateTask(input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
	}

	return mcp.NewToolResultText(taskConfirmation("created", task)), nil
}

func handleUpdateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	taskID, ok := args["taskId"].(string)
	if !ok || taskID == "" {
		return mcp.NewToolResultError("taskId is required"), nil
	}

	input := tasks.TaskInput{}

	if title, ok := args["title"].(string); ok {
		input.Title = title
	}
	if notes, ok := args["notes"].(string); ok {
		input.Notes = notes
	}
	if dueStr, ok := args["due"].(string); ok && dueStr != "" {
		due, err := common.ParseDate(dueStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid due date %q, expected YYYY-MM-DD", dueStr)), nil
		}
		input.Due = due
	}

	client, err := sc.TasksClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := client.UpdateTask(taskID, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update task: %v", err)), nil
	}

	return mcp.NewToolResultText(taskConfirmation("updated", task)), nil
}

func handleCompleteTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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

	task, err := client.CompleteTask(taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to complete task: %v", err)), nil
	}

	return mcp.NewToolResultText(taskConfirmation("completed", task)), nil
}

func handleUncompleteTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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

	task, err := client.UncompleteTask(taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to uncomplete task: %v", err)), nil
	}

	return mcp.NewToolResultText(taskConfirmation("uncompleted", task)), nil
}

func handleDeleteTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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

	if err := client.DeleteTask(taskID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete task: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted task %s", taskID)), nil
}
