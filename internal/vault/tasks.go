package vault

import (
	"strings"
	"time"
)

// TasksHeading is the daily note section managed by the task exporter.
const TasksHeading = "Tasks"

// Task is a task as it appears in a daily note. Title must be non-empty;
// callers substitute "(No title)" for untitled remote tasks. A zero Due
// means the task has no due date.
type Task struct {
	Title string
	Notes string
	Due   time.Time
}

// TaskSignature derives the stable identity of a task: "Title (due:
// YYYY-MM-DD)" when a due date is set, the bare title otherwise. Editing
// the title or moving the due date changes the signature, so the task
// returns unchecked.
func TaskSignature(t Task) Signature {
	if t.Due.IsZero() {
		return Signature(t.Title)
	}
	return Signature(t.Title + " (due: " + t.Due.Format("2006-01-02") + ")")
}

// taskBucket is one "### " subsection of the tasks section.
type taskBucket struct {
	name  string
	tasks []Task
}

// Bucket indices. The rendered order is this enumeration, never map
// iteration order.
const (
	bucketOverdue = iota
	bucketToday
	bucketTomorrow
	bucketThisWeek
	bucketNoDueDate
)

// bucketTasks assigns each task to a bucket relative to the target date.
// Comparisons are day-granular and by calendar date: a due value is read
// in its own location (the Tasks API stores due dates as midnight UTC)
// and rebuilt in target's location, so the same wall date never
// misbuckets across zones. Tasks due more than 7 days after target are
// dropped from this note entirely; they belong to a later one.
func bucketTasks(tasks []Task, target time.Time) []taskBucket {
	day := dateOnly(target)
	tomorrow := day.AddDate(0, 0, 1)
	horizon := day.AddDate(0, 0, 7)

	buckets := []taskBucket{
		{name: "Overdue"},
		{name: "Today"},
		{name: "Tomorrow"},
		{name: "This Week"},
		{name: "No Due Date"},
	}

	for _, t := range tasks {
		y, m, d := t.Due.Date()
		due := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
		var idx int
		switch {
		case t.Due.IsZero():
			idx = bucketNoDueDate
		case due.Before(day):
			idx = bucketOverdue
		case due.Equal(day):
			idx = bucketToday
		case due.Equal(tomorrow):
			idx = bucketTomorrow
		case !due.After(horizon):
			idx = bucketThisWeek
		default:
			continue
		}
		buckets[idx].tasks = append(buckets[idx].tasks, t)
	}

	return buckets
}

// BuildTasksSection renders the "## Tasks" section for the given tasks
// bucketed against the target date. Empty buckets are omitted; a day with
// no tasks at all renders the bare heading. Task notes are re-emitted as
// indented lines under the item, with blank note lines skipped. checked
// supplies the states recovered from the previous version of the section.
func BuildTasksSection(tasks []Task, target time.Time, checked map[Signature]bool) string {
	var b strings.Builder
	b.WriteString("## " + TasksHeading + "\n")

	for _, bucket := range bucketTasks(tasks, target) {
		if len(bucket.tasks) == 0 {
			continue
		}

		b.WriteString("\n### " + bucket.name + "\n")
		for _, t := range bucket.tasks {
			sig := TaskSignature(t)
			mark := " "
			if checked[sig] {
				mark = "x"
			}
			b.WriteString("- [" + mark + "] " + string(sig) + "\n")

			for _, line := range strings.Split(t.Notes, "\n") {
				if strings.TrimSpace(line) == "" {
					continue
				}
				b.WriteString("  " + line + "\n")
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
