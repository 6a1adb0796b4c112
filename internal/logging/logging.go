// Package logging builds the zerolog logger used for fmodcli diagnostics.
// Diagnostics go to stderr and stay quiet by default so that a normal run
// writes exactly one formatted message per stream.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config/env level name to a zerolog level. Unknown names
// fall back to error.
func ParseLevel(s string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "off", "disabled", "none":
		return zerolog.Disabled
	case "warning":
		return zerolog.WarnLevel
	case "err":
		return zerolog.ErrorLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.ErrorLevel
	}
	return lvl
}

// New returns a console logger writing to w at the given level.
func New(w io.Writer, level string) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Nop discards everything. Used by tests and as the zero value of optional
// logger fields.
func Nop() zerolog.Logger { return zerolog.Nop() }
