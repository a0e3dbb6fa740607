package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/gvault/gvault/internal/google"
)

// primaryCalendarID is the calendar all operations work on.
const primaryCalendarID = "primary"

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	account string // The account this client is associated with
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

// NewClientForAccount creates a new Calendar client with OAuth2
// authentication for a specific account using the on-disk token cache.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	return newClientWithHTTPClient(ctx, client, account)
}

// NewClientForAccountWithProvider creates a new Calendar client whose
// OAuth token comes from the given provider instead of the on-disk cache.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	client, err := google.GetHTTPClientForAccountWithProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	return newClientWithHTTPClient(ctx, client, account)
}

func newClientWithHTTPClient(ctx context.Context, client *http.Client, account string) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClient creates a new Calendar client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// ListEvents lists events on the primary calendar within a time range,
// sorted by start time. Recurring events are expanded into single
// instances. The query performs a free text search over title,
// description, location and attendees.
func (c *Client) ListEvents(timeMin, timeMax time.Time, query string, maxResults int64) ([]EventSummary, error) {
	call := c.svc.Events.List(primaryCalendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	if query != "" {
		call = call.Q(query)
	}
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	events, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var summaries []EventSummary
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}

	return summaries, nil
}

// ListEventsForDay lists the events overlapping a single calendar day.
func (c *Client) ListEventsForDay(day time.Time, query string) ([]EventSummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return c.ListEvents(start, start.AddDate(0, 0, 1), query, 0)
}

// GetEvent retrieves a specific event by ID
func (c *Client) GetEvent(eventID string) (*EventSummary, error) {
	event, err := c.svc.Events.Get(primaryCalendarID, eventID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	summary := toEventSummary(event)
	return &summary, nil
}

// CreateEvent creates a new event on the primary calendar
func (c *Client) CreateEvent(input EventInput) (*EventSummary, error) {
	if input.Summary == "" {
		return nil, fmt.Errorf("summary is required")
	}
	if input.Start.IsZero() || input.End.IsZero() {
		return nil, fmt.Errorf("start and end times are required")
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
	}
	event.Start, event.End = eventTimes(input)

	if len(input.Attendees) > 0 {
		var attendees []*calendar.EventAttendee
		for _, email := range input.Attendees {
			attendees = append(attendees, &calendar.EventAttendee{
				Email: email,
			})
		}
		event.Attendees = attendees
	}

	created, err := c.svc.Events.Insert(primaryCalendarID, event).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// UpdateEvent updates an existing event. Only fields set in the input
// are changed; start and end keep their all-day or timed shape.
func (c *Client) UpdateEvent(eventID string, input EventInput) (*EventSummary, error) {
	existing, err := c.svc.Events.Get(primaryCalendarID, eventID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get existing event: %w", err)
	}

	if input.Summary != "" {
		existing.Summary = input.Summary
	}
	if input.Description != "" {
		existing.Description = input.Description
	}
	if input.Location != "" {
		existing.Location = input.Location
	}

	if !input.Start.IsZero() {
		existing.Start = updatedEventTime(existing.Start, input.Start, input.TimeZone)
	}
	if !input.End.IsZero() {
		existing.End = updatedEventTime(existing.End, input.End, input.TimeZone)
	}

	if len(input.Attendees) > 0 {
		var attendees []*calendar.EventAttendee
		for _, email := range input.Attendees {
			attendees = append(attendees, &calendar.EventAttendee{
				Email: email,
			})
		}
		existing.Attendees = attendees
	}

	updated, err := c.svc.Events.Update(primaryCalendarID, eventID, existing).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	summary := toEventSummary(updated)
	return &summary, nil
}

// DeleteEvent deletes an event from the primary calendar
func (c *Client) DeleteEvent(eventID string) error {
	err := c.svc.Events.Delete(primaryCalendarID, eventID).Do()
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// eventTimes builds the start and end of a new event. All-day events use
// date-only values, timed events RFC 3339 with the input time zone
// (UTC when unset).
func eventTimes(input EventInput) (start, end *calendar.EventDateTime) {
	if input.AllDay {
		return &calendar.EventDateTime{Date: input.Start.Format("2006-01-02")},
			&calendar.EventDateTime{Date: input.End.Format("2006-01-02")}
	}

	tz := input.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	return &calendar.EventDateTime{DateTime: input.Start.Format(time.RFC3339), TimeZone: tz},
		&calendar.EventDateTime{DateTime: input.End.Format(time.RFC3339), TimeZone: tz}
}

// updatedEventTime replaces an event boundary with a new value, keeping
// the existing all-day or timed shape.
func updatedEventTime(existing *calendar.EventDateTime, t time.Time, timeZone string) *calendar.EventDateTime {
	if existing != nil && existing.Date != "" {
		return &calendar.EventDateTime{Date: t.Format("2006-01-02")}
	}

	edt := &calendar.EventDateTime{DateTime: t.Format(time.RFC3339)}
	if timeZone != "" {
		edt.TimeZone = timeZone
	} else if existing != nil {
		edt.TimeZone = existing.TimeZone
	}
	return edt
}
