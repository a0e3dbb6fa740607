package calendar

import (
	"github.com/gvault/gvault/internal/vault"
)

// VaultEvents converts event summaries into the form the daily note
// exporter consumes, preserving input order.
func VaultEvents(events []EventSummary) []vault.Event {
	converted := make([]vault.Event, 0, len(events))
	for _, e := range events {
		converted = append(converted, vault.Event{
			Title:    e.Summary,
			Location: e.Location,
			Start:    e.Start,
			End:      e.End,
			AllDay:   e.IsAllDay,
		})
	}
	return converted
}
