package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// listRangeFlags selects the time window for calendar listings. Exactly
// one selector may be given; without any, the current week is used.
type listRangeFlags struct {
	today      bool
	tomorrow   bool
	thisWeek   bool
	nextWeek   bool
	days       int
	date       string
	rangeStart string
	rangeEnd   string
}

func addListRangeFlags(cmd *cobra.Command) *listRangeFlags {
	f := &listRangeFlags{}
	cmd.Flags().BoolVar(&f.today, "today", false, "Events for today")
	cmd.Flags().BoolVar(&f.tomorrow, "tomorrow", false, "Events for tomorrow")
	cmd.Flags().BoolVar(&f.thisWeek, "this-week", false, "Events for this week, Monday to Sunday (default)")
	cmd.Flags().BoolVar(&f.nextWeek, "next-week", false, "Events for next week, Monday to Sunday")
	cmd.Flags().IntVarP(&f.days, "days", "d", 0, "Events for the next N days")
	cmd.Flags().StringVar(&f.date, "date", "", "Events for a specific date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.rangeStart, "range-start", "", "Custom range start (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")")
	cmd.Flags().StringVar(&f.rangeEnd, "range-end", "", "Custom range end (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")")
	return f
}

// resolve turns the selected flag into a half-open [start, end) window.
func (f *listRangeFlags) resolve(now time.Time) (start, end time.Time, err error) {
	selected := 0
	for _, set := range []bool{f.today, f.tomorrow, f.thisWeek, f.nextWeek, f.days != 0, f.date != "", f.rangeStart != ""} {
		if set {
			selected++
		}
	}
	if (f.rangeStart != "") != (f.rangeEnd != "") {
		return time.Time{}, time.Time{}, fmt.Errorf("--range-start and --range-end must be given together")
	}
	if selected > 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("only one time range flag can be given")
	}
	if selected == 0 {
		f.thisWeek = true
	}

	switch {
	case f.today:
		start = startOfDay(now)
		end = start.AddDate(0, 0, 1)
	case f.tomorrow:
		start = startOfDay(now).AddDate(0, 0, 1)
		end = start.AddDate(0, 0, 1)
	case f.thisWeek:
		start = startOfWeek(now)
		end = start.AddDate(0, 0, 7)
	case f.nextWeek:
		start = startOfWeek(now).AddDate(0, 0, 7)
		end = start.AddDate(0, 0, 7)
	case f.days != 0:
		if f.days < 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("--days must be positive, got %d", f.days)
		}
		start = startOfDay(now)
		end = start.AddDate(0, 0, f.days)
	case f.date != "":
		start, err = time.ParseInLocation("2006-01-02", f.date, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", f.date)
		}
		end = start.AddDate(0, 0, 1)
	default:
		start, err = parseRangeBound(f.rangeStart)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err = parseRangeBound(f.rangeEnd)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("range end %s is before range start %s", f.rangeEnd, f.rangeStart)
		}
	}

	return start, end, nil
}

// exportRangeFlags selects the target dates for daily note exports. One
// selector is required; every date in the selection gets its own note.
type exportRangeFlags struct {
	today      bool
	thisWeek   bool
	date       string
	rangeStart string
	rangeEnd   string
}

func addExportRangeFlags(cmd *cobra.Command) *exportRangeFlags {
	f := &exportRangeFlags{}
	cmd.Flags().BoolVar(&f.today, "today", false, "Export today")
	cmd.Flags().BoolVar(&f.thisWeek, "this-week", false, "Export this week, Monday to Sunday (7 daily notes)")
	cmd.Flags().StringVar(&f.date, "date", "", "Export a specific date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.rangeStart, "range-start", "", "Custom range start (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")")
	cmd.Flags().StringVar(&f.rangeEnd, "range-end", "", "Custom range end (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")")
	return f
}

// resolve turns the selected flag into an inclusive [first, last] date
// span at day granularity.
func (f *exportRangeFlags) resolve(now time.Time) (first, last time.Time, err error) {
	selected := 0
	for _, set := range []bool{f.today, f.thisWeek, f.date != "", f.rangeStart != ""} {
		if set {
			selected++
		}
	}
	if (f.rangeStart != "") != (f.rangeEnd != "") {
		return time.Time{}, time.Time{}, fmt.Errorf("--range-start and --range-end must be given together")
	}
	if selected == 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("specify --today, --this-week, --date, or --range-start/--range-end")
	}
	if selected > 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("only one time range flag can be given")
	}

	switch {
	case f.today:
		first = startOfDay(now)
		last = first
	case f.thisWeek:
		first = startOfWeek(now)
		last = first.AddDate(0, 0, 6)
	case f.date != "":
		first, err = time.ParseInLocation("2006-01-02", f.date, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", f.date)
		}
		last = first
	default:
		start, err := parseRangeBound(f.rangeStart)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err := parseRangeBound(f.rangeEnd)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		first = startOfDay(start)
		last = startOfDay(end)
		if last.Before(first) {
			return time.Time{}, time.Time{}, fmt.Errorf("range end %s is before range start %s", f.rangeEnd, f.rangeStart)
		}
	}

	return first, last, nil
}

// parseRangeBound parses a custom range boundary, with or without a
// time of day, in the local time zone.
func parseRangeBound(value string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q, expected YYYY-MM-DD or \"YYYY-MM-DD HH:MM\"", value)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns midnight of the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
