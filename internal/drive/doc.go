// Package drive provides a client for interacting with the Google Drive API.
//
// This package covers the file management operations exposed by the
// CLI and the MCP server:
//   - Listing and searching files and folders
//   - Retrieving file metadata and downloading content
//   - Uploading files
//   - Creating folders
//   - Renaming, moving and deleting files
//
// Folders are ordinary Drive files with the folder MIME type
// (FolderMimeType), so the rename, move and delete operations apply to
// them as well. Deleting moves a file to the trash unless permanent
// deletion is requested.
//
// # Authentication
//
// The client uses the same OAuth2 token system as the other Google
// services. Tokens are loaded from the file system (~/.cache/gvault/)
// per account, or from a TokenProvider when running as an MCP server.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := drive.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Upload a file
//	file, err := client.UploadFile(ctx, "report.pdf", bytes.NewReader(content), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Search for PDFs by name
//	files, err := client.SearchFiles(ctx, drive.SearchOptions{
//	    NameContains: "report",
//	    MimeType:     "application/pdf",
//	})
package drive
