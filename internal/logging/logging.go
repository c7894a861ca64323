// Package logging constructs the process-wide zerolog logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New creates a JSON logger writing to w at the given level. Unknown level
// strings fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// NewConsole creates a human-readable logger for CLI use, writing to stderr
// so command output on stdout stays clean.
func NewConsole(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}
