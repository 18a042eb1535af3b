package test

import (
	"io"
	"log/slog"
)

// DiscardLogger returns logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
