// Package calendar_tools provides MCP tools for Google Calendar.
//
// Tools:
//   - calendar_list_events: list events for a date or date range
//   - calendar_get_event: get details of a single event
//   - calendar_create_event: create an event (skipped in read-only mode)
//   - calendar_update_event: update an event (skipped in read-only mode)
//   - calendar_delete_event: delete an event (skipped in read-only mode)
//   - calendar_export_daily: export events into the vault's daily notes
//     (skipped in read-only mode)
//
// Clients are created lazily per account through the server context. When
// no token exists for the requested account the tools return an error
// result with authentication instructions.
package calendar_tools
