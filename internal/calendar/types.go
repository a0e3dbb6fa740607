package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// EventInput represents the input for creating or updating a calendar event
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
	AllDay      bool
	Attendees   []string
}

// EventSummary represents a calendar event for listings and JSON output.
// All-day events carry date-only start and end values.
type EventSummary struct {
	ID          string         `json:"id"`
	Summary     string         `json:"summary"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	IsAllDay    bool           `json:"is_all_day"`
	Status      string         `json:"status,omitempty"`
	Creator     string         `json:"creator,omitempty"`
	Organizer   string         `json:"organizer,omitempty"`
	Attendees   []AttendeeInfo `json:"attendees,omitempty"`
	HTMLLink    string         `json:"html_link,omitempty"`
	Created     time.Time      `json:"created,omitempty"`
	Updated     time.Time      `json:"updated,omitempty"`
}

// AttendeeInfo represents information about an event attendee
type AttendeeInfo struct {
	Email          string `json:"email"`
	DisplayName    string `json:"display_name,omitempty"`
	ResponseStatus string `json:"response_status,omitempty"` // "needsAction", "declined", "tentative", "accepted"
	Optional       bool   `json:"optional,omitempty"`
	Organizer      bool   `json:"organizer,omitempty"`
}

// parseEventTime parses an event boundary, which is either a dateTime
// (RFC 3339) or a date-only value for all-day events. Invalid values
// yield the zero time.
func parseEventTime(edt *calendar.EventDateTime) (t time.Time, allDay bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, false
	}
	if edt.Date != "" {
		parsed, err := time.Parse("2006-01-02", edt.Date)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

// parseRFC3339 leniently parses an RFC 3339 timestamp, returning the
// zero time for empty or invalid values.
func parseRFC3339(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// toEventSummary converts a Google Calendar event to an EventSummary
func toEventSummary(event *calendar.Event) EventSummary {
	summary := EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Status:      event.Status,
		HTMLLink:    event.HtmlLink,
		Created:     parseRFC3339(event.Created),
		Updated:     parseRFC3339(event.Updated),
	}

	if summary.Summary == "" {
		summary.Summary = "(No title)"
	}

	summary.Start, summary.IsAllDay = parseEventTime(event.Start)
	summary.End, _ = parseEventTime(event.End)

	if event.Creator != nil {
		summary.Creator = event.Creator.Email
	}
	if event.Organizer != nil {
		summary.Organizer = event.Organizer.Email
	}

	for _, att := range event.Attendees {
		summary.Attendees = append(summary.Attendees, AttendeeInfo{
			Email:          att.Email,
			DisplayName:    att.DisplayName,
			ResponseStatus: att.ResponseStatus,
			Optional:       att.Optional,
			Organizer:      att.Organizer,
		})
	}

	return summary
}
