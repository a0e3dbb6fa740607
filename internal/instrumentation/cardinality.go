package instrumentation

import "strings"

// ExtractUserDomain reduces an email address to its domain. Full
// addresses are unbounded-cardinality values and must never end up in
// metric labels or redacted logs; the domain keeps them useful without
// the explosion. Anything that is not a plain user@domain address maps
// to "unknown".
func ExtractUserDomain(email string) string {
	if email == "" {
		return "unknown"
	}

	parts := strings.Split(email, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}

// Operation label values for Google API metrics. Status, OAuth, and
// Service constants live in config.go.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationSend   = "send"
	OperationSearch = "search"
)
