package common

import (
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("ParseDate() unexpected error = %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 10 {
		t.Errorf("ParseDate() = %v, want 2025-03-10", got)
	}

	if _, err := ParseDate("10.03.2025"); err == nil {
		t.Error("ParseDate() expected error for invalid input")
	}
}

func TestDateRangeFromArgs(t *testing.T) {
	today := time.Now().Format("2006-01-02")

	tests := []struct {
		name      string
		args      map[string]interface{}
		wantStart string
		wantEnd   string
		wantErr   string
	}{
		{
			name:      "defaults to today",
			args:      map[string]interface{}{},
			wantStart: today,
			wantEnd:   today,
		},
		{
			name: "startDate only",
			args: map[string]interface{}{
				"startDate": "2025-03-10",
			},
			wantStart: "2025-03-10",
			wantEnd:   "2025-03-10",
		},
		{
			name: "explicit range",
			args: map[string]interface{}{
				"startDate": "2025-03-10",
				"endDate":   "2025-03-14",
			},
			wantStart: "2025-03-10",
			wantEnd:   "2025-03-14",
		},
		{
			name: "invalid startDate",
			args: map[string]interface{}{
				"startDate": "10.03.2025",
			},
			wantErr: "invalid startDate",
		},
		{
			name: "invalid endDate",
			args: map[string]interface{}{
				"endDate": "not-a-date",
			},
			wantErr: "invalid endDate",
		},
		{
			name: "endDate before startDate",
			args: map[string]interface{}{
				"startDate": "2025-03-14",
				"endDate":   "2025-03-10",
			},
			wantErr: "before startDate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := DateRangeFromArgs(tt.args)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("DateRangeFromArgs() expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("DateRangeFromArgs() error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DateRangeFromArgs() unexpected error = %v", err)
			}
			if got := start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}
