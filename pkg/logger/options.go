package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects a log handler.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatPretty Format = "pretty"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatPretty:
		return f, nil
	default:
		return "", fmt.Errorf("unknown log format %q (text, json, pretty)", s)
	}
}

type config struct {
	level  slog.Level
	format Format
	out    io.Writer
}

// Option configures a logger created with New.
type Option func(*config)

// WithDebug sets the level to Debug when true, Info otherwise.
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		if debug {
			c.level = slog.LevelDebug
		}
	}
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat selects the handler.
func WithFormat(f Format) Option {
	return func(c *config) { c.format = f }
}

// WithPretty is WithFormat(FormatPretty) when true.
func WithPretty(pretty bool) Option {
	return func(c *config) {
		if pretty {
			c.format = FormatPretty
		}
	}
}

// WithWriter sets the output. Several writers receive every line.
func WithWriter(w ...io.Writer) Option {
	return func(c *config) {
		switch len(w) {
		case 0:
		case 1:
			c.out = w[0]
		default:
			c.out = io.MultiWriter(w...)
		}
	}
}
