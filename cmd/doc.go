// Package cmd implements the command-line interface for gvault.
//
// This package provides the following commands:
//   - auth: Manage Google account credentials (add, list, check, remove)
//   - mail: List, read, send and export Gmail threads
//   - calendar: Manage Google Calendar events and export them to the vault
//   - task: Manage Google Tasks and export them to the vault
//   - drive: Browse, search and manage Google Drive files
//   - serve: Start the MCP server to provide tools for AI assistants
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// Export commands write daily markdown notes into a vault directory and
// merge with existing notes so manually checked items stay checked.
package cmd
