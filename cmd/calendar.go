package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gvault/gvault/internal/calendar"
	"github.com/gvault/gvault/internal/vault"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Google Calendar operations",
		Long: `List, create, update and delete events on the primary calendar,
and export daily notes into the vault.`,
	}

	cmd.AddCommand(newCalendarListCmd())
	cmd.AddCommand(newCalendarGetCmd())
	cmd.AddCommand(newCalendarCreateCmd())
	cmd.AddCommand(newCalendarUpdateCmd())
	cmd.AddCommand(newCalendarDeleteCmd())
	cmd.AddCommand(newCalendarExportCmd())
	return cmd
}

func newCalendarListCmd() *cobra.Command {
	var (
		rangeFlags listRangeFlags
		query      string
		maxResults int64
		format     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calendar events",
		Long: `List events on the primary calendar within a time range. Without a
range flag the current week (Monday through Sunday) is listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			start, end, err := rangeFlags.resolve(time.Now())
			if err != nil {
				return err
			}

			client, err := calendar.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			events, err := client.ListEvents(start, end, query, maxResults)
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(events)
			}
			printEventTable(events)
			return nil
		},
	}

	addListRangeFlags(cmd)
	cmd.Flags().StringVarP(&query, "query", "q", "", "Free-text filter on title, description and location")
	cmd.Flags().Int64VarP(&maxResults, "max-results", "n", 100, "Maximum number of events")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	return cmd
}

func printEventTable(events []calendar.EventSummary) {
	if len(events) == 0 {
		fmt.Println("No events found.")
		return
	}

	header := fmt.Sprintf("%-20s %-40s %-30s", "TIME", "EVENT", "LOCATION")
	fmt.Println(header)
	fmt.Println(strings.Repeat("=", len(header)))

	for _, e := range events {
		var timeStr string
		switch {
		case e.IsAllDay:
			timeStr = e.Start.Format("2006-01-02")
		case e.Start.IsZero() || e.End.IsZero():
			timeStr = "(No time)"
		default:
			timeStr = e.Start.Format("15:04") + "-" + e.End.Format("15:04")
		}

		summary := strings.ReplaceAll(e.Summary, "\n", " ")
		fmt.Printf("%-20s %-40s %-30s\n", timeStr, truncate(summary, 40), truncate(e.Location, 30))
	}

	fmt.Printf("\nTotal: %d events\n", len(events))
}

func newCalendarGetCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get EVENT_ID",
		Short: "Show a single calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			client, err := calendar.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			event, err := client.GetEvent(args[0])
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(event)
			}
			printEventText(event)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	return cmd
}

func printEventText(e *calendar.EventSummary) {
	fmt.Printf("Event ID:    %s\n", e.ID)
	fmt.Printf("Summary:     %s\n", e.Summary)
	if e.Description != "" {
		fmt.Printf("Description: %s\n", e.Description)
	}
	if e.Location != "" {
		fmt.Printf("Location:    %s\n", e.Location)
	}

	if e.IsAllDay {
		fmt.Printf("Date:        %s (All day)\n", e.Start.Format("2006-01-02"))
	} else {
		fmt.Printf("Start:       %s\n", e.Start.Format("2006-01-02 15:04"))
		fmt.Printf("End:         %s\n", e.End.Format("2006-01-02 15:04"))
	}

	if len(e.Attendees) > 0 {
		fmt.Printf("\nAttendees (%d):\n", len(e.Attendees))
		for _, att := range e.Attendees {
			status := att.ResponseStatus
			if status == "" {
				status = "needsAction"
			}
			optional := ""
			if att.Optional {
				optional = " (optional)"
			}
			fmt.Printf("  - %s [%s]%s\n", att.Email, status, optional)
		}
	}

	if e.Status != "" {
		fmt.Printf("\nStatus:      %s\n", e.Status)
	}
	if e.HTMLLink != "" {
		fmt.Printf("Link:        %s\n", e.HTMLLink)
	}
}

// eventFieldFlags are the event fields shared by create and update.
type eventFieldFlags struct {
	summary     string
	start       string
	end         string
	description string
	location    string
	attendees   []string
	timeZone    string
	allDay      bool
}

func (f *eventFieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.summary, "summary", "", "Event title")
	cmd.Flags().StringVar(&f.start, "start", "", `Start time, YYYY-MM-DD or "YYYY-MM-DD HH:MM"`)
	cmd.Flags().StringVar(&f.end, "end", "", `End time, YYYY-MM-DD or "YYYY-MM-DD HH:MM"`)
	cmd.Flags().StringVar(&f.description, "description", "", "Event description")
	cmd.Flags().StringVar(&f.location, "location", "", "Event location")
	cmd.Flags().StringArrayVar(&f.attendees, "attendee", nil, "Attendee email, repeatable")
	cmd.Flags().StringVar(&f.timeZone, "timezone", "", "IANA time zone for timed events (default UTC)")
	cmd.Flags().BoolVar(&f.allDay, "all-day", false, "All-day event; start and end are dates, end exclusive")
}

// input converts the flag values into an EventInput. Unset time flags
// stay zero, which UpdateEvent treats as unchanged.
func (f *eventFieldFlags) input() (calendar.EventInput, error) {
	in := calendar.EventInput{
		Summary:     f.summary,
		Description: f.description,
		Location:    f.location,
		Attendees:   f.attendees,
		TimeZone:    f.timeZone,
		AllDay:      f.allDay,
	}

	if f.start != "" {
		t, err := parseRangeBound(f.start)
		if err != nil {
			return calendar.EventInput{}, fmt.Errorf("invalid --start: %w", err)
		}
		in.Start = t
	}
	if f.end != "" {
		t, err := parseRangeBound(f.end)
		if err != nil {
			return calendar.EventInput{}, fmt.Errorf("invalid --end: %w", err)
		}
		in.End = t
	}
	return in, nil
}

func newCalendarCreateCmd() *cobra.Command {
	var fields eventFieldFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a calendar event",
		Long: `Create an event on the primary calendar. Timed events take start
and end as "YYYY-MM-DD HH:MM"; with --all-day both are dates and the
end date is exclusive, so a one-day event ends on the following day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := fields.input()
			if err != nil {
				return err
			}

			client, err := calendar.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			event, err := client.CreateEvent(input)
			if err != nil {
				return err
			}
			return printJSON(event)
		},
	}

	fields.register(cmd)
	_ = cmd.MarkFlagRequired("summary")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newCalendarUpdateCmd() *cobra.Command {
	var fields eventFieldFlags

	cmd := &cobra.Command{
		Use:   "update EVENT_ID",
		Short: "Update a calendar event",
		Long: `Update fields of an existing event. Only the given flags change;
everything else keeps its current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := false
			for _, name := range []string{"summary", "start", "end", "description", "location", "attendee", "timezone"} {
				if cmd.Flags().Changed(name) {
					changed = true
					break
				}
			}
			if !changed {
				return fmt.Errorf("specify at least one field to update")
			}

			input, err := fields.input()
			if err != nil {
				return err
			}

			client, err := calendar.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			event, err := client.UpdateEvent(args[0], input)
			if err != nil {
				return err
			}
			return printJSON(event)
		},
	}

	fields.register(cmd)
	return cmd
}

func newCalendarDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete EVENT_ID",
		Short: "Delete a calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := calendar.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			if !force {
				event, err := client.GetEvent(args[0])
				if err != nil {
					return err
				}
				if !confirmf("Delete event %q (%s)?", event.Summary, event.Start.Format("2006-01-02 15:04")) {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			if err := client.DeleteEvent(args[0]); err != nil {
				return err
			}
			fmt.Printf("Event deleted: %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func newCalendarExportCmd() *cobra.Command {
	var (
		rangeFlags exportRangeFlags
		query      string
		vaultRoot  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export calendar events to daily notes",
		Long: `Export events into one daily note per date, merged into the note's
Calendar section. Checkbox state from a previous export of the same
date is preserved for events that kept their time and title.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			first, last, err := rangeFlags.resolve(time.Now())
			if err != nil {
				return err
			}

			v, err := openVault(vaultRoot)
			if err != nil {
				return err
			}

			client, err := calendar.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			exporter := vault.NewCalendarExporter(v)
			exporter.SetTemplate(noteTemplate())

			summary := exporter.ExportRange(first, last, func(date time.Time) ([]vault.Event, error) {
				events, err := client.ListEventsForDay(date, query)
				if err != nil {
					return nil, err
				}
				return calendar.VaultEvents(events), nil
			})

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
	cmd.Flags().StringVarP(&query, "query", "q", "", "Free-text filter on title, description and location")
	cmd.Flags().StringVar(&vaultRoot, "vault", "", "Vault root directory (default: GVAULT_ROOT or config file)")
	return cmd
}
