// Package logger builds the zerolog loggers used across the service.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New creates a service logger. Unknown levels fall back to info.
// When pretty is true, output is human-readable console format.
func New(service, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stdout)
	if pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	return out.Level(lvl).With().
		Timestamp().
		Str("service", service).
		Logger()
}
