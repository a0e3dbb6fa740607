package vault

import (
	"strings"
	"time"
)

// CalendarHeading is the daily note section managed by the calendar
// exporter.
const CalendarHeading = "Calendar"

// noEventsPlaceholder renders an empty calendar day.
const noEventsPlaceholder = "- No events scheduled"

// Event is a calendar event as it appears in a daily note. Title must be
// non-empty; callers substitute "(No title)" for untitled remote events.
type Event struct {
	Title    string
	Location string
	Start    time.Time
	End      time.Time
	AllDay   bool
}

// EventSignature derives the stable identity of an event: "HH:MM-HH:MM
// Title" for timed events, "All day: Title" otherwise. The location is
// excluded, so moving an event to another room keeps its checked state
// while rescheduling or renaming it does not.
func EventSignature(e Event) Signature {
	if e.AllDay {
		return Signature("All day: " + e.Title)
	}
	return Signature(e.Start.Format("15:04") + "-" + e.End.Format("15:04") + " " + e.Title)
}

// eventItemText renders the checklist text for an event: the signature
// plus an " @ location" suffix when a location is set.
func eventItemText(e Event) string {
	text := string(EventSignature(e))
	if e.Location != "" {
		text += " @ " + e.Location
	}
	return text
}

// BuildCalendarSection renders the "## Calendar" section for the given
// events, in input order. checked supplies the states recovered from the
// previous version of the section; events not found there start
// unchecked. An empty event list renders a single placeholder line.
func BuildCalendarSection(events []Event, checked map[Signature]bool) string {
	lines := make([]string, 0, len(events)+1)
	lines = append(lines, "## "+CalendarHeading)

	if len(events) == 0 {
		lines = append(lines, noEventsPlaceholder)
		return strings.Join(lines, "\n")
	}

	for _, e := range events {
		mark := " "
		if checked[EventSignature(e)] {
			mark = "x"
		}
		lines = append(lines, "- ["+mark+"] "+eventItemText(e))
	}

	return strings.Join(lines, "\n")
}
