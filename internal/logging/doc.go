// Package logging holds the shared slog attribute helpers and the
// Logger interface the server wires through its components.
//
// Attribute helpers keep the same concept under the same key on every
// log line:
//
//	slog.Warn("cached token invalid",
//	    logging.Account(account), logging.Err(err))
//
// The Logger interface decouples packages from a concrete slog.Logger.
package logging
