// Package logging builds the service-wide structured logger.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a [log.Logger] writing to w with timestamps enabled.
// The writer defaults to [os.Stderr].
func New(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true}
	return log.NewWithOptions(w, opts)
}

// With creates a child logger with the given key-value pairs attached
// to every entry.
func With(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}
