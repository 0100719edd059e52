// Package logging builds the zerolog loggers used by the client and the reference backend.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w.
// Debug selects debug level; otherwise only warnings and errors are written.
func New(w io.Writer, debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(consoleWriter).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewJSON returns a JSON logger at info level, used by the server when not debugging.
func NewJSON(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
