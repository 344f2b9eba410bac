// Package logging builds the zerolog logger shared by the CLI commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // console or json
	Out    io.Writer // defaults to stderr
}

// New returns a logger writing to opts.Out. Console output is human-readable;
// json output is one object per line.
func New(opts Options) (zerolog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
		}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// ParseLevel accepts debug, info, warn/warning, error (case-insensitive).
// An empty string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level: %s", s)
	}
}
