package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gvault/gvault/internal/tasks"
	"github.com/gvault/gvault/internal/vault"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Google Tasks operations",
		Long: `Manage tasks on the default task list and export them into daily
notes, bucketed by due date.`,
	}

	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskListsCmd())
	cmd.AddCommand(newTaskGetCmd())
	cmd.AddCommand(newTaskCreateCmd())
	cmd.AddCommand(newTaskUpdateCmd())
	cmd.AddCommand(newTaskCompleteCmd())
	cmd.AddCommand(newTaskUncompleteCmd())
	cmd.AddCommand(newTaskDeleteCmd())
	cmd.AddCommand(newTaskExportCmd())
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var (
		completed  bool
		incomplete bool
		all        bool
		today      bool
		overdue    bool
		thisWeek   bool
		query      string
		maxResults int64
		format     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks on the default task list. Without a status flag only
incomplete tasks are shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			if countTrue(completed, incomplete, all) > 1 {
				return fmt.Errorf("only one of --completed, --incomplete, --all can be given")
			}
			if countTrue(today, overdue, thisWeek) > 1 {
				return fmt.Errorf("only one of --today, --overdue, --this-week can be given")
			}

			opts := tasks.ListTasksOptions{
				Query:      query,
				MaxResults: maxResults,
			}

			switch {
			case completed:
				opts.Completed = boolPtr(true)
			case all:
				// no filter
			default:
				opts.Completed = boolPtr(false)
			}

			now := time.Now()
			switch {
			case today:
				opts.DueMin = startOfDay(now)
				opts.DueMax = startOfDay(now).AddDate(0, 0, 1)
			case overdue:
				opts.DueMax = startOfDay(now)
			case thisWeek:
				opts.DueMin = startOfWeek(now)
				opts.DueMax = startOfWeek(now).AddDate(0, 0, 7)
			}

			client, err := tasks.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			list, err := client.ListTasks(opts)
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(list)
			}
			printTaskTable(list)
			return nil
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "Show only completed tasks")
	cmd.Flags().BoolVar(&incomplete, "incomplete", false, "Show only incomplete tasks")
	cmd.Flags().BoolVar(&all, "all", false, "Show all tasks regardless of status")
	cmd.Flags().BoolVar(&today, "today", false, "Tasks due today")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "Tasks past their due date")
	cmd.Flags().BoolVar(&thisWeek, "this-week", false, "Tasks due this week")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Keyword filter on title and notes")
	cmd.Flags().Int64VarP(&maxResults, "max-results", "n", 100, "Maximum number of tasks")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	return cmd
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func boolPtr(v bool) *bool {
	return &v
}

func printTaskTable(list []tasks.Task) {
	if len(list) == 0 {
		fmt.Println("No tasks found.")
		return
	}

	header := fmt.Sprintf("%-8s %-12s %-50s", "STATUS", "DUE DATE", "TASK TITLE")
	fmt.Println(header)
	fmt.Println(strings.Repeat("=", len(header)))

	for _, t := range list {
		mark := "[ ]"
		if t.Status == "completed" {
			mark = "[x]"
		}
		due := ""
		if !t.Due.IsZero() {
			due = t.Due.Format("2006-01-02")
		}
		fmt.Printf("%-8s %-12s %-50s\n", mark, due, truncate(t.Title, 50))
	}

	fmt.Printf("\nTotal: %d tasks\n", len(list))
}

func newTaskListsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List the account's task lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := tasks.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			lists, err := client.ListTaskLists()
			if err != nil {
				return err
			}
			return printJSON(lists)
		},
	}
}

func newTaskGetCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get TASK_ID",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			client, err := tasks.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			task, err := client.GetTask(args[0])
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(task)
			}
			printTaskText(task)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	return cmd
}

func printTaskText(t *tasks.Task) {
	fmt.Printf("Task ID:     %s\n", t.ID)
	fmt.Printf("Title:       %s\n", t.Title)
	if t.Notes != "" {
		fmt.Printf("Notes:       %s\n", t.Notes)
	}
	due := "No due date"
	if !t.Due.IsZero() {
		due = t.Due.Format("2006-01-02")
	}
	fmt.Printf("Due:         %s\n", due)
	fmt.Printf("Status:      %s\n", t.Status)
	if !t.Completed.IsZero() {
		fmt.Printf("Completed:   %s\n", t.Completed.Format("2006-01-02 15:04"))
	}
}

// parseDueDate parses a --due value as a local calendar date.
func parseDueDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func newTaskCreateCmd() *cobra.Command {
	var (
		title string
		notes string
		due   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			input := tasks.TaskInput{Title: title, Notes: notes}
			if due != "" {
				t, err := parseDueDate(due)
				if err != nil {
					return err
				}
				input.Due = t
			}

			client, err := tasks.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			task, err := client.CreateTask(input)
			if err != nil {
				return err
			}
			return printJSON(task)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Task title (required)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Task notes")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskUpdateCmd() *cobra.Command {
	var (
		title string
		notes string
		due   string
	)

	cmd := &cobra.Command{
		Use:   "update TASK_ID",
		Short: "Update a task",
		Long: `Update fields of an existing task. Only the given flags change;
everything else keeps its current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && notes == "" && due == "" {
				return fmt.Errorf("specify at least one field to update")
			}

			input := tasks.TaskInput{Title: title, Notes: notes}
			if due != "" {
				t, err := parseDueDate(due)
				if err != nil {
					return err
				}
				input.Due = t
			}

			client, err := tasks.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			task, err := client.UpdateTask(args[0], input)
			if err != nil {
				return err
			}
			return printJSON(task)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New task title")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "New task notes")
	cmd.Flags().StringVarP(&due, "due", "d", "", "New due date (YYYY-MM-DD)")
	return cmd
}

func newTaskCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete TASK_ID...",
		Short: "Mark tasks as completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := tasks.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			completed := make([]*tasks.Task, 0, len(args))
			for _, id := range args {
				task, err := client.CompleteTask(id)
				if err != nil {
					return fmt.Errorf("failed to complete %s: %w", id, err)
				}
				completed = append(completed, task)
			}
			return printJSON(completed)
		},
	}
}

func newTaskUncompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uncomplete TASK_ID...",
		Short: "Mark completed tasks as needing action",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := tasks.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			uncompleted := make([]*tasks.Task, 0, len(args))
			for _, id := range args {
				task, err := client.UncompleteTask(id)
				if err != nil {
					return fmt.Errorf("failed to uncomplete %s: %w", id, err)
				}
				uncompleted = append(uncompleted, task)
			}
			return printJSON(uncompleted)
		},
	}
}

func newTaskDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete TASK_ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := tasks.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			if !force {
				task, err := client.GetTask(args[0])
				if err != nil {
					return err
				}
				if !confirmf("Delete task %q?", task.Title) {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			if err := client.DeleteTask(args[0]); err != nil {
				return err
			}
			return printJSON(map[string]string{"status": "deleted", "task_id": args[0]})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func newTaskExportCmd() *cobra.Command {
	var (
		rangeFlags       exportRangeFlags
		query            string
		includeCompleted bool
		vaultRoot        string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks to daily notes",
		Long: `Export tasks into one daily note per date, merged into the note's
Tasks section. Tasks are fetched once and bucketed relative to each
date (Overdue, Today, Tomorrow, This Week, No Due Date), so a week's
notes each show their own view of the same task set. Checkbox state
from a previous export is preserved for tasks that kept their title
and due date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			first, last, err := rangeFlags.resolve(time.Now())
			if err != nil {
				return err
			}

			v, err := openVault(vaultRoot)
			if err != nil {
				return err
			}

			client, err := tasks.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			opts := tasks.ListTasksOptions{Query: query}
			if !includeCompleted {
				opts.Completed = boolPtr(false)
			}

			list, err := client.ListTasks(opts)
			if err != nil {
				return err
			}

			exporter := vault.NewTaskExporter(v)
			exporter.SetTemplate(noteTemplate())

			summary := exporter.ExportRange(first, last, tasks.VaultTasks(list))

			if err := printJSON(summary); err != nil {
				return err
			}
			if len(summary.Failures) > 0 {
				return fmt.Errorf("%d dates failed to export", len(summary.Failures))
			}
			return nil
		},
	}

	addExportRangeFlags(cmd)
	cmd.Flags().StringVarP(&query, "query", "q", "", "Keyword filter on title and notes")
	cmd.Flags().BoolVar(&includeCompleted, "completed", false, "Include completed tasks")
	cmd.Flags().StringVar(&vaultRoot, "vault", "", "Vault root directory (default: GVAULT_ROOT or config file)")
	return cmd
}
