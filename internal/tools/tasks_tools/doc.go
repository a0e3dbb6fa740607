// Package tasks_tools provides MCP tools for Google Tasks. All tools
// operate on the account's default task list.
//
// Tools:
//   - tasks_list_tasks: list tasks filtered by status, due date and text
//   - tasks_get_task: get details of a single task
//   - tasks_create_task: create a task (skipped in read-only mode)
//   - tasks_update_task: update a task (skipped in read-only mode)
//   - tasks_complete_task: mark a task completed (skipped in read-only mode)
//   - tasks_uncomplete_task: mark a task not completed (skipped in read-only mode)
//   - tasks_delete_task: delete a task (skipped in read-only mode)
//   - tasks_export_daily: export tasks into the vault's daily notes
//     (skipped in read-only mode)
//
// Clients are created lazily per account through the server context. When
// no token exists for the requested account the tools return an error
// result with authentication instructions.
package tasks_tools
