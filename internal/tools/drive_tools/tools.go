package drive_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/gvault/gvault/internal/drive"
	"github.com/gvault/gvault/internal/instrumentation"
	"github.com/gvault/gvault/internal/server"
	"github.com/gvault/gvault/internal/tools/common"
)

// RegisterDriveTools registers all Drive-related tools with the MCP server.
// In read-only mode the tools that mutate files are skipped.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listFilesTool := mcp.NewTool("drive_list_files",
		mcp.WithDescription("List files in Google Drive, newest first"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("folderId",
			mcp.Description("Only list direct children of this folder"),
		),
		mcp.WithString("query",
			mcp.Description("Drive query language filter, e.g. \"name contains 'report'\""),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of files to return (default: 100)"),
		),
		mcp.WithBoolean("includeTrashed",
			mcp.Description("Include trashed files (default: false)"),
		),
	)

	s.AddTool(listFilesTool, common.InstrumentedToolHandlerWithService(
		"drive_list_files", instrumentation.ServiceDrive, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListFiles(ctx, request, sc)
		}))

	searchFilesTool := mcp.NewTool("drive_search_files",
		mcp.WithDescription("Search files in Google Drive by name, type, folder or sharing state"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text the file name must contain"),
		),
		mcp.WithString("mimeType",
			mcp.Description("Only files of exactly this MIME type"),
		),
		mcp.WithString("folderId",
			mcp.Description("Only direct children of this folder"),
		),
		mcp.WithBoolean("sharedWithMe",
			mcp.Description("Only files shared with the user (default: false)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of files to return (default: 100)"),
		),
	)

	s.AddTool(searchFilesTool, common.InstrumentedToolHandlerWithService(
		"drive_search_files", instrumentation.ServiceDrive, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchFiles(ctx, request, sc)
		}))

	getFileTool := mcp.NewTool("drive_get_file",
		mcp.WithDescription("Get metadata of a specific Drive file"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the file to retrieve"),
		),
	)

	s.AddTool(getFileTool, common.InstrumentedToolHandlerWithService(
		"drive_get_file", instrumentation.ServiceDrive, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetFile(ctx, request, sc)
		}))

	if !readOnly {
		if err := RegisterFileTools(s, sc); err != nil {
			return fmt.Errorf("failed to register file tools: %w", err)
		}
	}

	return nil
}

func handleListFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	opts := &drive.ListOptions{}

	if folderID, ok := args["folderId"].(string); ok {
		opts.FolderID = folderID
	}
	if query, ok := args["query"].(string); ok {
		opts.Query = query
	}
	if maxVal, ok := args["maxResults"].(float64); ok && maxVal > 0 {
		opts.MaxResults = int64(maxVal)
	}
	if includeTrashed, ok := args["includeTrashed"].(bool); ok {
		opts.IncludeTrashed = includeTrashed
	}

	client, err := sc.DriveClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	files, err := client.ListFiles(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list files: %v", err)), nil
	}

	return common.JSONResult(files)
}

func handleSearchFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	opts := drive.SearchOptions{NameContains: query}

	if mimeType, ok := args["mimeType"].(string); ok {
		opts.MimeType = mimeType
	}
	if folderID, ok := args["folderId"].(string); ok {
		opts.FolderID = folderID
	}
	if sharedWithMe, ok := args["sharedWithMe"].(bool); ok {
		opts.SharedWithMe = sharedWithMe
	}
	if maxVal, ok := args["maxResults"].(float64); ok && maxVal > 0 {
		opts.MaxResults = int64(maxVal)
	}

	client, err := sc.DriveClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	files, err := client.SearchFiles(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search files: %v", err)), nil
	}

	return common.JSONResult(files)
}

func handleGetFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	fileID, ok := args["fileId"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("fileId is required"), nil
	}

	client, err := sc.DriveClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	file, err := client.GetFile(ctx, fileID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get file: %v", err)), nil
	}

	return common.JSONResult(file)
}
