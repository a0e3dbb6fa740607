package google

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/gvault/gvault/internal/logging"
)

// DefaultAccount is the account name used when none is specified.
const DefaultAccount = "default"

// Environment variables holding the OAuth client credentials.
const (
	credentialsJSONEnv = "GVAULT_CREDENTIALS_JSON"
	credentialsFileEnv = "GVAULT_CREDENTIALS_FILE"
)

const oobRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

var accountNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateAccountName rejects account names that would produce unsafe
// token file names.
func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, hyphens and underscores are allowed", account)
	}
	return nil
}

// GetOAuthConfig builds the OAuth2 configuration for all Google services
// from the client credentials in GVAULT_CREDENTIALS_JSON (inline JSON)
// or GVAULT_CREDENTIALS_FILE (path to a credentials file).
func GetOAuthConfig() (*oauth2.Config, error) {
	data, err := credentialsJSON()
	if err != nil {
		return nil, err
	}

	conf, err := google.ConfigFromJSON(data, DefaultOAuthScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OAuth client credentials: %w", err)
	}

	conf.RedirectURL = oobRedirectURL
	return conf, nil
}

func credentialsJSON() ([]byte, error) {
	if inline := os.Getenv(credentialsJSONEnv); inline != "" {
		return []byte(inline), nil
	}
	if path := os.Getenv(credentialsFileEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("no OAuth client credentials configured: set %s or %s", credentialsJSONEnv, credentialsFileEnv)
}

// getTokenFilePath returns the token cache file for an account. The
// default account keeps the bare google.token name, other accounts get
// google.<account>.token.
func getTokenFilePath(account string) string {
	cacheDir := filepath.Join(userCacheDir(), "gvault")
	if account == "" || account == DefaultAccount {
		return filepath.Join(cacheDir, "google.token")
	}
	return filepath.Join(cacheDir, "google."+account+".token")
}

// HasTokenForAccount checks if a cached OAuth token exists for the
// specified account.
func HasTokenForAccount(account string) bool {
	if err := validateAccountName(account); err != nil {
		return false
	}
	_, err := os.Stat(getTokenFilePath(account))
	return err == nil
}

// HasToken checks if a cached OAuth token exists for the default account.
func HasToken() bool {
	return HasTokenForAccount(DefaultAccount)
}

// GetAuthURLForAccount returns the OAuth URL the user must visit to
// authorize the specified account.
func GetAuthURLForAccount(account string) (string, error) {
	conf, err := GetOAuthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state-" + account), nil
}

// GetAuthURL returns the OAuth URL for the default account.
func GetAuthURL() (string, error) {
	return GetAuthURLForAccount(DefaultAccount)
}

// SaveTokenForAccount exchanges an authorization code for tokens and
// saves them to the account's token cache file.
func SaveTokenForAccount(ctx context.Context, account, authCode string) error {
	if err := validateAccountName(account); err != nil {
		return err
	}

	conf, err := GetOAuthConfig()
	if err != nil {
		return err
	}

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	return writeTokenFile(account, t.AccessToken, t.RefreshToken)
}

// SaveToken exchanges an authorization code for the default account.
func SaveToken(ctx context.Context, authCode string) error {
	return SaveTokenForAccount(ctx, DefaultAccount, authCode)
}

func writeTokenFile(account, accessToken, refreshToken string) error {
	tokenFile := getTokenFilePath(account)

	if err := os.MkdirAll(filepath.Dir(tokenFile), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := accessToken + " " + refreshToken
	if err := os.WriteFile(tokenFile, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

func readTokenFile(account string) (accessToken, refreshToken string, err error) {
	slurp, err := os.ReadFile(getTokenFilePath(account))
	if err != nil {
		return "", "", fmt.Errorf("no Google OAuth token found for account %s", account)
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return "", "", fmt.Errorf("invalid token format for account %s", account)
	}

	return f[0], f[1], nil
}

// GetTokenSourceForAccount returns a refreshing OAuth2 token source for
// the account's cached token. Returns an error if no valid token exists.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}

	conf, err := GetOAuthConfig()
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := readTokenFile(account)
	if err != nil {
		return nil, err
	}

	// The stale expiry forces a refresh on first use.
	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		RefreshToken: refreshToken,
		Expiry:       time.Unix(1, 0),
	})

	// Validate the token
	if _, err := ts.Token(); err != nil {
		slog.Warn("cached token invalid", logging.Account(account), logging.Err(err))
		return nil, fmt.Errorf("cached token for account %s is invalid: %w", account, err)
	}

	return ts, nil
}

// GetTokenSource returns a token source for the default account.
func GetTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	return GetTokenSourceForAccount(ctx, DefaultAccount)
}

// GetHTTPClientForAccount returns an HTTP client configured with OAuth2
// authentication for the specified account. The client is configured to
// use HTTP/1.1 to avoid HTTP/2 protocol errors.
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	return newHTTP11Client(ctx, ts), nil
}

// newHTTP11Client wraps a token source in an HTTP client with HTTP/2
// disabled.
func newHTTP11Client(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client
}

// GetHTTPClient returns an authenticated HTTP client for the default
// account.
func GetHTTPClient(ctx context.Context) (*http.Client, error) {
	return GetHTTPClientForAccount(ctx, DefaultAccount)
}

// GetAuthenticationErrorMessage returns the guidance shown when an
// operation needs a Google OAuth token that does not exist yet.
func GetAuthenticationErrorMessage(account string) string {
	return fmt.Sprintf(`Authentication required: no Google OAuth token found for account %q.

To authenticate:
  1. Run: gvault auth login --account %s
  2. Open the printed URL in a browser and approve access
  3. Paste the authorization code back into the prompt

The token is cached in %s for future runs.`, account, account, getTokenFilePath(account))
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
