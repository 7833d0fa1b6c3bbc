package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a configured application logger.
// It writes to Stderr so diagnostics never mix with the release output
// (spinner, command echo) on Stdout.
// It standardizes common keys (e.g., "error" -> "err") and redacts "token"
// values: publish runs inside CI, and CI captures Stderr.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case "error":
		// Standardize 'error' key to 'err'
		a.Key = "err"
	case "token":
		a.Value = slog.StringValue("[REDACTED]")
	}
	return a
}
