// Package tasks provides a client for managing Google Tasks.
//
// This package wraps the Google Tasks API (tasks/v1) and provides functionality for:
//   - Listing, creating, updating and deleting tasks
//   - Marking tasks completed or incomplete
//   - Filtering tasks by completion state, due date range and free text query
//   - Converting tasks into their daily note representation
//
// All task operations work on the user's default task list, which the
// API reports as the first list. Other lists can be enumerated with
// ListTaskLists but are not otherwise addressable.
//
// # Authentication
//
// The client uses the same OAuth2 token system as the other Google
// services. Tokens are loaded from the file system (~/.cache/gvault/)
// per account, or from a TokenProvider when running as an MCP server.
//
// # Example Usage
//
//	// Create a client for the default account
//	client, err := tasks.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List incomplete tasks due this week
//	incomplete := false
//	list, err := client.ListTasks(tasks.ListTasksOptions{
//	    Completed: &incomplete,
//	    DueMax:    time.Now().AddDate(0, 0, 7),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create a task due in 7 days
//	task, err := client.CreateTask(tasks.TaskInput{
//	    Title: "Complete project",
//	    Notes: "Finish implementation and testing",
//	    Due:   time.Now().AddDate(0, 0, 7),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Complete it
//	completed, err := client.CompleteTask(task.ID)
//	if err != nil {
//	    log.Fatal(err)
//	}
package tasks
