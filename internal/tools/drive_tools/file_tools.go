package drive_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/gvault/gvault/internal/instrumentation"
	"github.com/gvault/gvault/internal/server"
	"github.com/gvault/gvault/internal/tools/common"
)

// RegisterFileTools registers the file mutation tools with the MCP server.
func RegisterFileTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	createFolderTool := mcp.NewTool("drive_create_folder",
		mcp.WithDescription("Create a folder in Google Drive. Returns the existing folder if one with the same name already exists in the parent."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the folder to create"),
		),
		mcp.WithString("parentId",
			mcp.Description("Parent folder ID (default: My Drive root)"),
		),
	)

	s.AddTool(createFolderTool, common.InstrumentedToolHandlerWithService(
		"drive_create_folder", instrumentation.ServiceDrive, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateFolder(ctx, request, sc)
		}))

	renameFileTool := mcp.NewTool("drive_rename_file",
		mcp.WithDescription("Rename a file or folder in Google Drive"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the file to rename"),
		),
		mcp.WithString("newName",
			mcp.Required(),
			mcp.Description("The new name for the file"),
		),
	)

	s.AddTool(renameFileTool, common.InstrumentedToolHandlerWithService(
		"drive_rename_file", instrumentation.ServiceDrive, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRenameFile(ctx, request, sc)
		}))

	moveFileTool := mcp.NewTool("drive_move_file",
		mcp.WithDescription("Move a file or folder to another folder in Google Drive"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the file to move"),
		),
		mcp.WithString("destFolderId",
			mcp.Required(),
			mcp.Description("The ID of the destination folder"),
		),
	)

	s.AddTool(moveFileTool, common.InstrumentedToolHandlerWithService(
		"drive_move_file", instrumentation.ServiceDrive, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMoveFile(ctx, request, sc)
		}))

	deleteFileTool := mcp.NewTool("drive_delete_file",
		mcp.WithDescription("Delete a file or folder in Google Drive. Moves to trash by default."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the file to delete"),
		),
		mcp.WithBoolean("permanent",
			mcp.Description("Delete permanently instead of moving to trash (default: false)"),
		),
	)

	s.AddTool(deleteFileTool, common.InstrumentedToolHandlerWithService(
		"drive_delete_file", instrumentation.ServiceDrive, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteFile(ctx, request, sc)
		}))

	return nil
}

func handleCreateFolder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	parentID := ""
	if parentVal, ok := args["parentId"].(string); ok {
		parentID = parentVal
	}

	client, err := sc.DriveClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	folder, err := client.CreateFolder(ctx, name, parentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create folder: %v", err)), nil
	}

	result := fmt.Sprintf("Successfully created folder: %s\n", folder.Name)
	result += fmt.Sprintf("ID: %s\n", folder.ID)
	if folder.WebViewLink != "" {
		result += fmt.Sprintf("Link: %s\n", folder.WebViewLink)
	}

	return mcp.NewToolResultText(result), nil
}

func handleRenameFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	fileID, ok := args["fileId"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("fileId is required"), nil
	}

	newName, ok := args["newName"].(string)
	if !ok || newName == "" {
		return mcp.NewToolResultError("newName is required"), nil
	}

	client, err := sc.DriveClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	file, err := client.RenameFile(ctx, fileID, newName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to rename file: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully renamed file %s to %s", file.ID, file.Name)), nil
}

func handleMoveFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	fileID, ok := args["fileId"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("fileId is required"), nil
	}

	destFolderID, ok := args["destFolderId"].(string)
	if !ok || destFolderID == "" {
		return mcp.NewToolResultError("destFolderId is required"), nil
	}

	client, err := sc.DriveClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	file, err := client.MoveFile(ctx, fileID, destFolderID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to move file: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully moved file %s to folder %s", file.Name, destFolderID)), nil
}

func handleDeleteFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	fileID, ok := args["fileId"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("fileId is required"), nil
	}

	permanent := false
	if permVal, ok := args["permanent"].(bool); ok {
		permanent = permVal
	}

	client, err := sc.DriveClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.DeleteFile(ctx, fileID, permanent); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete file: %v", err)), nil
	}

	if permanent {
		return mcp.NewToolResultText(fmt.Sprintf("Permanently deleted file %s", fileID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Moved file %s to trash", fileID)), nil
}
