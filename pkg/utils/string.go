package utils

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Truncate shortens s to at most maxLen terminal cells, appending "..." when
// cut. Escape sequences take no width and wide runes take two cells.
func Truncate(s string, maxLen int) string {
	if ansi.StringWidth(s) <= maxLen {
		return s
	}
	return ansi.Truncate(s, maxLen, "") + "..."
}

// Clip shortens s to at most maxLen runes without a marker.
func Clip(s string, maxLen int) string {
	r := []rune(s)
	if maxLen < 0 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}

// OneLine collapses runs of whitespace, including newlines, into single spaces.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
