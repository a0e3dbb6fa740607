// Package gmail_tools provides MCP (Model Context Protocol) tools for
// interacting with Gmail.
//
// This package exposes Gmail functionality through MCP tools that can be
// called by AI agents or other MCP clients:
//
//   - gmail_list_emails: List threads matching a Gmail search query
//   - gmail_get_email: Fetch a message with decoded bodies and
//     attachment metadata
//   - gmail_send_email: Send an email (skipped in read-only mode)
//   - gmail_export_threads: Export threads as markdown notes into the
//     vault (skipped in read-only mode)
//
// All tools accept an optional account argument so that multiple Google
// accounts can be used against the same server. Clients are created
// lazily by the server context; a missing token yields an error result
// with authentication instructions rather than a protocol error.
package gmail_tools
