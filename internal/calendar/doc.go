// Package calendar provides a client for interacting with the Google Calendar API.
//
// This package offers functionality for managing events on the primary
// calendar: listing a time range with free text search, creating,
// reading, updating and deleting events, and converting events into the
// form the vault daily note exporter consumes. All-day and timed events
// are both supported.
//
// The client supports multi-account authentication using the Google OAuth2 flow
// and can manage events across multiple Google accounts.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List upcoming events
//	events, err := client.ListEvents(time.Now(), time.Now().AddDate(0, 0, 7), "", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
