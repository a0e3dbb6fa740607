package google

import (
	"context"
	"fmt"
	"net/http"

	calendar "google.golang.org/api/calendar/v3"
	drive "google.golang.org/api/drive/v3"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"
)

// ServiceCheck is the outcome of probing one Google API with an
// account's token.
type ServiceCheck struct {
	Service string `json:"service"`
	OK      bool   `json:"ok"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerifyAccess probes the Gmail, Calendar, Tasks and Drive APIs with the
// account's token and reports per-service reachability. A failing
// service does not abort the remaining probes; only a missing or
// invalid token is returned as an error.
func VerifyAccess(ctx context.Context, account string) ([]ServiceCheck, error) {
	client, err := GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	return []ServiceCheck{
		probeGmail(ctx, client),
		probeCalendar(ctx, client),
		probeTasks(ctx, client),
		probeDrive(ctx, client),
	}, nil
}

func probeGmail(ctx context.Context, client *http.Client) ServiceCheck {
	check := ServiceCheck{Service: "gmail"}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		check.Error = err.Error()
		return check
	}

	profile, err := svc.Users.GetProfile("me").Do()
	if err != nil {
		check.Error = err.Error()
		return check
	}

	check.OK = true
	check.Detail = fmt.Sprintf("%s (%d messages)", profile.EmailAddress, profile.MessagesTotal)
	return check
}

func probeCalendar(ctx context.Context, client *http.Client) ServiceCheck {
	check := ServiceCheck{Service: "calendar"}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		check.Error = err.Error()
		return check
	}

	if _, err := svc.CalendarList.List().MaxResults(1).Do(); err != nil {
		check.Error = err.Error()
		return check
	}

	check.OK = true
	check.Detail = "calendar list accessible"
	return check
}

func probeTasks(ctx context.Context, client *http.Client) ServiceCheck {
	check := ServiceCheck{Service: "tasks"}

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		check.Error = err.Error()
		return check
	}

	if _, err := svc.Tasklists.List().MaxResults(1).Do(); err != nil {
		check.Error = err.Error()
		return check
	}

	check.OK = true
	check.Detail = "task lists accessible"
	return check
}

func probeDrive(ctx context.Context, client *http.Client) ServiceCheck {
	check := ServiceCheck{Service: "drive"}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		check.Error = err.Error()
		return check
	}

	about, err := svc.About.Get().Fields("user").Do()
	if err != nil {
		check.Error = err.Error()
		return check
	}

	check.OK = true
	if about.User != nil {
		check.Detail = fmt.Sprintf("drive user %s", about.User.EmailAddress)
	}
	return check
}
