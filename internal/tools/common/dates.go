package common

import (
	"fmt"
	"time"
)

// ParseDate parses a YYYY-MM-DD value in the local time zone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

// DateRangeFromArgs resolves the startDate and endDate arguments shared by
// the date range tools. Both default to today, endDate defaults to
// startDate.
func DateRangeFromArgs(args map[string]interface{}) (start, end time.Time, err error) {
	now := time.Now()
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	if startStr, ok := args["startDate"].(string); ok && startStr != "" {
		start, err = ParseDate(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid startDate %q, expected YYYY-MM-DD", startStr)
		}
	}

	end = start
	if endStr, ok := args["endDate"].(string); ok && endStr != "" {
		end, err = ParseDate(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid endDate %q, expected YYYY-MM-DD", endStr)
		}
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("endDate %s is before startDate %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	return start, end, nil
}
