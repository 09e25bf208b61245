// Package logger wraps the standard log.Logger so packages share one
// configurable sink.
package logger

import (
	"io"
	"log"
	"os"
)

// Logger wraps log.Logger.
type Logger struct {
	*log.Logger
}

// New creates a logger writing to stderr with standard flags.
func New() *Logger {
	return &Logger{Logger: log.New(os.Stderr, "", log.LstdFlags)}
}

// NewWriter creates a logger writing to w.
func NewWriter(w io.Writer) *Logger {
	return &Logger{Logger: log.New(w, "", log.LstdFlags)}
}

// Discard creates a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return NewWriter(io.Discard)
}
