package logger

import (
	"io"
	"log/slog"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
}

// NewWithWriter creates Logger writing text records to w.
// The CLI logs to stderr so command output stays readable.
func NewWithWriter(w io.Writer, level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}
