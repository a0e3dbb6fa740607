package common

import (
	"context"

	"github.com/gvault/gvault/internal/google"
)

// GetAccountFromArgs extracts the account name from request arguments.
// Falls back to the default account when no account is given.
//
// The ctx parameter is reserved for transports that carry an
// authenticated identity; the current transports do not.
func GetAccountFromArgs(ctx context.Context, args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return google.DefaultAccount
}
