package gmail

import (
	"context"
	"fmt"
	"net/http"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/gvault/gvault/internal/google"
)

// Client wraps the Gmail Users service and People service
type Client struct {
	svc       *gmail.UsersService
	peopleSvc *people.Service
	account   string // The account this client is associated with
	signature string // Cached signature for this account
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

// NewClientForAccount creates a new Gmail client with OAuth2 authentication
// for a specific account using the on-disk token cache.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	return newClientWithHTTPClient(ctx, client, account)
}

// NewClientForAccountWithProvider creates a new Gmail client whose OAuth
// token comes from the given provider instead of the on-disk cache.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	client, err := google.GetHTTPClientForAccountWithProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	return newClientWithHTTPClient(ctx, client, account)
}

func newClientWithHTTPClient(ctx context.Context, client *http.Client, account string) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	peopleSvc, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	return &Client{
		svc:       svc.Users,
		peopleSvc: peopleSvc,
		account:   account,
	}, nil
}

// NewClient creates a new Gmail client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// GetProfile retrieves the Gmail profile of the authenticated user
func (c *Client) GetProfile() (*gmail.Profile, error) {
	profile, err := c.svc.GetProfile("me").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get Gmail profile: %w", err)
	}
	return profile, nil
}

// GetThread retrieves a full Gmail thread with all its messages
func (c *Client) GetThread(threadID string) (*gmail.Thread, error) {
	thread, err := c.svc.Threads.Get("me", threadID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get thread %s: %w", threadID, err)
	}
	return thread, nil
}

// listThreadStubs lists thread stubs (id and snippet only) matching the
// query with pagination, making multiple API calls if necessary.
func (c *Client) listThreadStubs(q string, maxResults int64) ([]*gmail.Thread, error) {
	var allThreads []*gmail.Thread
	pageToken := ""

	for {
		remaining := maxResults - int64(len(allThreads))
		if remaining <= 0 {
			break
		}

		// Gmail API has a max page size, typically 100
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Threads.List("me").MaxResults(pageSize)
		if q != "" {
			req = req.Q(q)
		}
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, err
		}

		allThreads = append(allThreads, res.Threads...)

		if res.NextPageToken == "" || int64(len(allThreads)) >= maxResults {
			break
		}

		pageToken = res.NextPageToken
	}

	if int64(len(allThreads)) > maxResults {
		allThreads = allThreads[:maxResults]
	}

	return allThreads, nil
}

// ListThreads lists threads matching the query together with their
// subject, sender and date. The thread list endpoint returns stubs only,
// so each thread is fetched in metadata format to fill in the headers.
func (c *Client) ListThreads(q string, maxResults int64) ([]*ThreadSummary, error) {
	stubs, err := c.listThreadStubs(q, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	summaries := make([]*ThreadSummary, 0, len(stubs))
	for _, stub := range stubs {
		thread, err := c.svc.Threads.Get("me", stub.Id).
			Format("metadata").
			MetadataHeaders("Subject", "From", "Date").
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get thread %s: %w", stub.Id, err)
		}
		summaries = append(summaries, toThreadSummary(thread))
	}

	return summaries, nil
}
