package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards everything. Hub and service
// tests pass it wherever a *slog.Logger is required.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
