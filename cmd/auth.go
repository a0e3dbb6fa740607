package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gvault/gvault/internal/google"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate Google accounts and verify API access",
		Long: `Manage OAuth tokens for Google accounts.

OAuth client credentials come from the GVAULT_CREDENTIALS_JSON environment
variable (inline JSON) or GVAULT_CREDENTIALS_FILE (path to the JSON file
downloaded from the Google Cloud console). Tokens are stored per account
under the user cache directory.`,
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthCheckCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var authCode string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize an account and save its token",
		Long: `Run the OAuth authorization flow for an account.

Prints the authorization URL, waits for the authorization code (or takes
it from --auth-code), exchanges it, and saves the token. Use --account to
authorize additional accounts next to the default one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			account := currentAccount()

			url, err := google.GetAuthURLForAccount(account)
			if err != nil {
				return err
			}

			fmt.Printf("Authorizing account %q.\n\n", account)
			fmt.Println("Open this URL in your browser and grant access:")
			fmt.Println()
			fmt.Println("  " + url)
			fmt.Println()

			code := strings.TrimSpace(authCode)
			if code == "" {
				fmt.Print("Enter the authorization code: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read authorization code: %w", err)
				}
				code = strings.TrimSpace(line)
			}
			if code == "" {
				return fmt.Errorf("authorization code is required")
			}

			if err := google.SaveTokenForAccount(cmd.Context(), account, code); err != nil {
				return err
			}

			fmt.Printf("\nToken saved for account %q. Run 'gvault auth check' to verify access.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&authCode, "auth-code", "", "Authorization code (skips the interactive prompt)")
	return cmd
}

func newAuthCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify credentials and per-API access",
		Long: `Probe the Gmail, Calendar, Tasks and Drive APIs with the account's
token and report per-service access. Exits non-zero when any probe fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			account := currentAccount()

			if _, err := google.GetOAuthConfig(); err != nil {
				fmt.Fprintln(os.Stderr, "✗ failed to load OAuth client credentials")
				return err
			}
			fmt.Println("✓ OAuth client credentials loaded")

			if !google.HasTokenForAccount(account) {
				return fmt.Errorf("no token for account %q, run 'gvault auth login' first", account)
			}

			checks, err := google.VerifyAccess(cmd.Context(), account)
			if err != nil {
				return err
			}

			failed := 0
			for _, check := range checks {
				if check.OK {
					fmt.Printf("✓ %s: %s\n", check.Service, check.Detail)
					continue
				}
				failed++
				fmt.Printf("✗ %s: %s\n", check.Service, check.Error)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d service checks failed", failed, len(checks))
			}

			fmt.Printf("\nAll service checks passed for account %q.\n", account)
			return nil
		},
	}

	return cmd
}
