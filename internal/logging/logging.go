package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. format is "json" or "console"; an unknown
// level falls back to info.
func New(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "alumnimeet").Logger()
}
