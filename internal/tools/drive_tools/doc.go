// Package drive_tools provides MCP tools for Google Drive.
//
// Tools:
//   - drive_list_files: list files, optionally scoped to a folder
//   - drive_search_files: search files by name, type, folder or sharing state
//   - drive_get_file: get metadata of a single file
//   - drive_create_folder: create a folder (skipped in read-only mode)
//   - drive_rename_file: rename a file or folder (skipped in read-only mode)
//   - drive_move_file: move a file between folders (skipped in read-only mode)
//   - drive_delete_file: trash or permanently delete a file (skipped in
//     read-only mode)
//
// Clients are created lazily per account through the server context. When
// no token exists for the requested account the tools return an error
// result with authentication instructions.
package drive_tools
