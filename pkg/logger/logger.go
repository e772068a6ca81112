// Package logger builds the *slog.Logger used across newsvec.
package logger

import (
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// New creates a *slog.Logger. Without options it writes text at Info level to
// os.Stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		format: FormatText,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := &slog.HandlerOptions{Level: c.level}

	switch c.format {
	case FormatPretty:
		return slog.New(prettyHandler(c))
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(c.out, handlerOpts))
	default:
		return slog.New(slog.NewTextHandler(c.out, handlerOpts))
	}
}

// prettyHandler renders colorized output for a terminal. charmlog only knows
// its own levels, so slog levels are mapped onto them.
func prettyHandler(c *config) slog.Handler {
	return charmlog.NewWithOptions(c.out, charmlog.Options{
		Level:           charmlog.Level(c.level),
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
