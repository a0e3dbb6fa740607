package vault

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gvault/gvault/internal/logging"
)

// CalendarExporter writes calendar events into daily notes with the
// smart-merge rule.
type CalendarExporter struct {
	vault    *Vault
	template NoteTemplate
}

// NewCalendarExporter returns a calendar exporter over v using the
// default daily note template.
func NewCalendarExporter(v *Vault) *CalendarExporter {
	return &CalendarExporter{vault: v, template: DailyNoteTemplate}
}

// SetTemplate replaces the skeleton used for brand-new daily notes.
func (e *CalendarExporter) SetTemplate(tmpl NoteTemplate) {
	if tmpl != nil {
		e.template = tmpl
	}
}

// Export merges the given events into the daily note for date and returns
// the note path. Checked state from a previous export of the same date is
// preserved by signature.
func (e *CalendarExporter) Export(date time.Time, events []Event) (string, error) {
	existing, err := e.vault.ReadDailyNote(date)
	if err != nil {
		return "", err
	}

	previous := ExtractSection(existing, CalendarHeading)
	checked := ParseCheckedItems(previous, EventSignatureFromItem)
	section := BuildCalendarSection(events, checked)
	merged := MergeWithTemplate(existing, section, CalendarHeading, date, e.template)

	if err := e.vault.WriteDailyNote(date, merged); err != nil {
		return "", err
	}
	return e.vault.DailyNotePath(date), nil
}

// CalendarSummary reports a multi-date calendar export.
type CalendarSummary struct {
	ExportedDates []string `json:"exported_dates"`
	TotalEvents   int      `json:"total_events"`
	Notes         []string `json:"notes"`
	Failures      []string `json:"failures,omitempty"`
}

// ExportRange exports one daily note per date in [start, end], fetching
// each date's events through fetch. A failed date is recorded in the
// summary and the remaining dates still run.
func (e *CalendarExporter) ExportRange(start, end time.Time, fetch func(date time.Time) ([]Event, error)) CalendarSummary {
	summary := CalendarSummary{
		ExportedDates: []string{},
		Notes:         []string{},
	}

	for date := dateOnly(start); !date.After(dateOnly(end)); date = date.AddDate(0, 0, 1) {
		day := date.Format("2006-01-02")

		events, err := fetch(date)
		if err != nil {
			slog.Warn("calendar export failed for date", "date", day, logging.Err(err))
			summary.Failures = append(summary.Failures, fmt.Sprintf("%s: %v", day, err))
			continue
		}

		path, err := e.Export(date, events)
		if err != nil {
			slog.Warn("calendar export failed for date", "date", day, logging.Err(err))
			summary.Failures = append(summary.Failures, fmt.Sprintf("%s: %v", day, err))
			continue
		}

		summary.ExportedDates = append(summary.ExportedDates, day)
		summary.TotalEvents += len(events)
		summary.Notes = append(summary.Notes, path)
	}

	return summary
}

// TaskExporter writes tasks into daily notes with the smart-merge rule.
type TaskExporter struct {
	vault    *Vault
	template NoteTemplate
}

// NewTaskExporter returns a task exporter over v using the default daily
// note template.
func NewTaskExporter(v *Vault) *TaskExporter {
	return &TaskExporter{vault: v, template: DailyNoteTemplate}
}

// SetTemplate replaces the skeleton used for brand-new daily notes.
func (e *TaskExporter) SetTemplate(tmpl NoteTemplate) {
	if tmpl != nil {
		e.template = tmpl
	}
}

// Export merges the given tasks into the daily note for date, bucketing
// them relative to that date, and returns the note path.
func (e *TaskExporter) Export(date time.Time, tasks []Task) (string, error) {
	existing, err := e.vault.ReadDailyNote(date)
	if err != nil {
		return "", err
	}

	previous := ExtractSection(existing, TasksHeading)
	checked := ParseCheckedItems(previous, TaskSignatureFromItem)
	section := BuildTasksSection(tasks, date, checked)
	merged := MergeWithTemplate(existing, section, TasksHeading, date, e.template)

	if err := e.vault.WriteDailyNote(date, merged); err != nil {
		return "", err
	}
	return e.vault.DailyNotePath(date), nil
}

// TaskSummary reports a multi-date task export.
type TaskSummary struct {
	ExportedDates []string `json:"exported_dates"`
	TotalTasks    int      `json:"total_tasks"`
	Notes         []string `json:"notes"`
	Failures      []string `json:"failures,omitempty"`
}

// ExportRange exports the same task set against every date in
// [start, end]; each date re-buckets the tasks relative to itself.
// Tasks are fetched once by the caller. A failed date is recorded in the
// summary and the remaining dates still run.
func (e *TaskExporter) ExportRange(start, end time.Time, tasks []Task) TaskSummary {
	summary := TaskSummary{
		ExportedDates: []string{},
		TotalTasks:    len(tasks),
		Notes:         []string{},
	}

	for date := dateOnly(start); !date.After(dateOnly(end)); date = date.AddDate(0, 0, 1) {
		day := date.Format("2006-01-02")

		path, err := e.Export(date, tasks)
		if err != nil {
			slog.Warn("task export failed for date", "date", day, logging.Err(err))
			summary.Failures = append(summary.Failures, fmt.Sprintf("%s: %v", day, err))
			continue
		}

		summary.ExportedDates = append(summary.ExportedDates, day)
		summary.Notes = append(summary.Notes, path)
	}

	return summary
}
