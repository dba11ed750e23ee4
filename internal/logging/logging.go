// Package logging configures the zerolog logger for the console. The TUI
// owns stdout, so logs go to a file in the user config dir.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const logFile = "console.log"

// Setup opens (or creates) the log file under dir and returns a logger
// writing to it, plus a close func for shutdown.
func Setup(dir string) (zerolog.Logger, func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, logFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	log := zerolog.New(f).With().Timestamp().Logger()
	return log, f.Close, nil
}

// NewTestLogger returns a logger writing to w, for tests.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
