package tasks

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/gvault/gvault/internal/google"
)

// Task status values used by the Tasks API.
const (
	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// defaultMaxTasks is the page size used when the caller does not cap
// the result count. It is also the API's maximum page size.
const defaultMaxTasks = 100

// Client wraps the Google Tasks service. All task operations work on
// the user's default task list, discovered on first use.
type Client struct {
	svc     *tasks.Service
	account string // The account this client is associated with

	defaultListID string // Cached default task list ID
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return google.HasToken()
}

// NewClientForAccount creates a new Tasks client with OAuth2
// authentication for a specific account using the on-disk token cache.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	return newClientWithHTTPClient(ctx, client, account)
}

// NewClientForAccountWithProvider creates a new Tasks client whose
// OAuth token comes from the given provider instead of the on-disk cache.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	client, err := google.GetHTTPClientForAccountWithProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	return newClientWithHTTPClient(ctx, client, account)
}

func newClientWithHTTPClient(ctx context.Context, client *http.Client, account string) (*Client, error) {
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClient creates a new Tasks client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// DefaultTaskListID returns the ID of the user's default task list,
// which the Tasks API reports as the first list. The ID is cached for
// the lifetime of the client.
func (c *Client) DefaultTaskListID() (string, error) {
	if c.defaultListID != "" {
		return c.defaultListID, nil
	}

	result, err := c.svc.Tasklists.List().MaxResults(1).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get default task list: %w", err)
	}
	if len(result.Items) == 0 {
		return "", fmt.Errorf("no task lists found")
	}

	c.defaultListID = result.Items[0].Id
	return c.defaultListID, nil
}

// ListTaskLists lists all task lists for the authenticated user
func (c *Client) ListTaskLists() ([]TaskList, error) {
	result, err := c.svc.Tasklists.List().Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}

	var taskLists []TaskList
	for _, tl := range result.Items {
		taskLists = append(taskLists, toTaskList(tl))
	}

	return taskLists, nil
}

// ListTasksOptions filters the tasks returned by ListTasks.
type ListTasksOptions struct {
	// Completed selects tasks by completion state: nil returns every
	// task, true only completed tasks, false only incomplete ones.
	Completed *bool

	// DueMin and DueMax bound the due date when non-zero. DueMin is
	// inclusive, DueMax exclusive.
	DueMin time.Time
	DueMax time.Time

	// Query matches tasks whose title or notes contain the string,
	// case-insensitively.
	Query string

	// MaxResults caps the number of tasks fetched. Zero or negative
	// means the default of 100.
	MaxResults int64
}

// ListTasks lists tasks on the default task list, filtered by opts.
// Due date bounds are applied by the API; the completion state and
// query filters are applied client-side because the API can only
// include or exclude completed tasks, not select by status.
func (c *Client) ListTasks(opts ListTasksOptions) ([]Task, error) {
	listID, err := c.DefaultTaskListID()
	if err != nil {
		return nil, err
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxTasks
	}

	call := c.svc.Tasks.List(listID).MaxResults(maxResults)

	if opts.Completed != nil {
		if *opts.Completed {
			// Completed tasks are hidden by default once Google's
			// clients clear them, so both flags are needed.
			call = call.ShowCompleted(true).ShowHidden(true)
		} else {
			call = call.ShowCompleted(false)
		}
	}

	if !opts.DueMin.IsZero() {
		call = call.DueMin(opts.DueMin.Format(time.RFC3339))
	}
	if !opts.DueMax.IsZero() {
		call = call.DueMax(opts.DueMax.Format(time.RFC3339))
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var taskList []Task
	for _, t := range result.Items {
		task := toTask(t)
		if !matchesFilter(task, opts) {
			continue
		}
		taskList = append(taskList, task)
	}

	return taskList, nil
}

// matchesFilter reports whether a task passes the client-side parts of
// opts: the completion state and the free text query.
func matchesFilter(t Task, opts ListTasksOptions) bool {
	if opts.Completed != nil && (t.Status == statusCompleted) != *opts.Completed {
		return false
	}
	if opts.Query != "" && !matchesQuery(t, opts.Query) {
		return false
	}
	return true
}

// matchesQuery reports whether the task's title or notes contain the
// query, ignoring case.
func matchesQuery(t Task, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Notes), q)
}

// GetTask retrieves a task from the default task list by ID
func (c *Client) GetTask(taskID string) (*Task, error) {
	listID, err := c.DefaultTaskListID()
	if err != nil {
		return nil, err
	}

	t, err := c.svc.Tasks.Get(listID, taskID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	result := toTask(t)
	return &result, nil
}

// CreateTask creates a new task on the default task list
func (c *Client) CreateTask(input TaskInput) (*Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	listID, err := c.DefaultTaskListID()
	if err != nil {
		return nil, err
	}

	t := &tasks.Task{
		Title: input.Title,
		Notes: input.Notes,
	}
	if !input.Due.IsZero() {
		t.Due = formatDue(input.Due)
	}

	created, err := c.svc.Tasks.Insert(listID, t).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	result := toTask(created)
	return &result, nil
}

// UpdateTask updates an existing task on the default task list. Only
// the fields set in input are changed.
func (c *Client) UpdateTask(taskID string, input TaskInput) (*Task, error) {
	listID, err := c.DefaultTaskListID()
	if err != nil {
		return nil, err
	}

	existing, err := c.svc.Tasks.Get(listID, taskID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get existing task: %w", err)
	}

	if input.Title != "" {
		existing.Title = input.Title
	}
	if input.Notes != "" {
		existing.Notes = input.Notes
	}
	if !input.Due.IsZero() {
		existing.Due = formatDue(input.Due)
	}

	updated, err := c.svc.Tasks.Update(listID, taskID, existing).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	result := toTask(updated)
	return &result, nil
}

// CompleteTask marks a task on the default task list as completed
func (c *Client) CompleteTask(taskID string) (*Task, error) {
	listID, err := c.DefaultTaskListID()
	if err != nil {
		return nil, err
	}

	existing, err := c.svc.Tasks.Get(listID, taskID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	existing.Status = statusCompleted
	completedTime := time.Now().UTC().Format(time.RFC3339)
	existing.Completed = &completedTime

	updated, err := c.svc.Tasks.Update(listID, taskID, existing).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	result := toTask(updated)
	return &result, nil
}

// UncompleteTask marks a completed task on the default task list as
// needing action again
func (c *Client) UncompleteTask(taskID string) (*Task, error) {
	listID, err := c.DefaultTaskListID()
	if err != nil {
		return nil, err
	}

	existing, err := c.svc.Tasks.Get(listID, taskID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	existing.Status = statusNeedsAction
	existing.Completed = nil

	updated, err := c.svc.Tasks.Update(listID, taskID, existing).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to uncomplete task: %w", err)
	}

	result := toTask(updated)
	return &result, nil
}

// DeleteTask deletes a task from the default task list
func (c *Client) DeleteTask(taskID string) error {
	listID, err := c.DefaultTaskListID()
	if err != nil {
		return err
	}

	if err := c.svc.Tasks.Delete(listID, taskID).Do(); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// formatDue renders a due date the way the Tasks API stores it: a
// date-only value carried in an RFC 3339 timestamp at midnight UTC.
func formatDue(t time.Time) string {
	return t.Format("2006-01-02") + "T00:00:00.000Z"
}
