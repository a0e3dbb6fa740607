package logging

import "log/slog"

// Logger is the level-based interface the server components code
// against. *slog.Logger satisfies it, so NewSlogAdapter exists only to
// supply the nil fallback.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// NewSlogAdapter returns logger as a Logger, substituting
// slog.Default() for nil.
func NewSlogAdapter(logger *slog.Logger) Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
