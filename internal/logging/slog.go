package logging

import "log/slog"

// Attribute keys shared across the codebase so the same concept always
// logs under the same name.
const (
	KeyService = "service"
	KeyAccount = "account"
	KeyError   = "error"
)

// Service returns the service attribute for a log line.
func Service(service string) slog.Attr {
	return slog.String(KeyService, service)
}

// Account returns the account attribute for a log line.
func Account(account string) slog.Attr {
	return slog.String(KeyAccount, account)
}

// Err returns the error attribute for a log line. A nil err yields an
// empty group, which slog drops, so call sites can pass a maybe-nil
// error without guarding.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}
