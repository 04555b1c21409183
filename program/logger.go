package main

import (
	"io"
	"log/slog"
	"os"
)

// The terminal belongs to the UI, so logs only go to a file when asked for.
var logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// setupLogging points the package logger at path. The returned closer must be
// called on exit.
func setupLogging(path string) (io.Closer, error) {
	if path == "" {
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return f, nil
}
