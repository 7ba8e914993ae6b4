// Package logger provides the shared zerolog logger for the toolkit.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

// Logger returns the toolkit logger.
func Logger() zerolog.Logger {
	return logger
}

// SetOutput changes the log sink. Useful to redirect output in tests.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set replaces the logger wholesale.
func Set(l zerolog.Logger) {
	logger = l
}

// Disable discards all log output.
func Disable() {
	logger = zerolog.Nop()
}
