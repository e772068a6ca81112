// Package cliui holds the terminal styling shared by newsvec commands: step
// indicators, status marks and markdown rendering.
package cliui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	colorGreen  = lipgloss.Color("82")
	colorRed    = lipgloss.Color("196")
	colorOrange = lipgloss.Color("214")
	colorBlue   = lipgloss.Color("39")
	colorLight  = lipgloss.Color("252")
	colorGrey   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("241")
)

var (
	SuccessMark string
	FailMark    string

	StepStyle   = lipgloss.NewStyle().Foreground(colorGrey)
	HeaderStyle = lipgloss.NewStyle().Foreground(colorLight).Bold(true)
	KeyStyle    = lipgloss.NewStyle().Foreground(colorBlue)
	ValueStyle  = lipgloss.NewStyle().Foreground(colorLight)
	NameStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	DimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	WarnStyle   = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)

	spinnerStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

func init() {
	renderMarks()
}

func renderMarks() {
	SuccessMark = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	FailMark = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
}

// Color modes accepted by SetColorMode.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// SetColorMode forces styled output on or off. ColorAuto keeps the detected
// terminal profile, which honors NO_COLOR.
func SetColorMode(mode string) error {
	switch mode {
	case "", ColorAuto:
		return nil
	case ColorAlways:
		lipgloss.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		return fmt.Errorf("invalid color mode %q (expected %s, %s or %s)", mode, ColorAuto, ColorAlways, ColorNever)
	}
	renderMarks()
	return nil
}

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const (
	spinnerInterval = 80 * time.Millisecond
	markdownWidth   = 80
)

// Step runs fn and reports it as one line: a check or cross, msg and the
// elapsed time. On a terminal a spinner animates while fn runs.
func Step(w io.Writer, msg string, fn func() error) error {
	start := time.Now()

	var err error
	if isTerminal(w) {
		err = spin(w, msg, fn)
	} else {
		err = fn()
	}

	fmt.Fprintf(w, "\r  %s %s %s\n",
		Mark(err),
		msg,
		StepStyle.Render("("+FormatDuration(time.Since(start))+")"),
	)
	return err
}

// spin redraws the spinner until fn returns. The final line overwrites it.
func spin(w io.Writer, msg string, fn func() error) error {
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			fmt.Fprintf(w, "\r  %s %s", spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]), msg)
			select {
			case <-done:
				return
			case <-ticker.C:
			}
		}
	}()

	err := fn()
	close(done)
	<-stopped
	return err
}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// RenderMarkdown writes content to w rendered by glamour. Terminals get the
// auto-detected style; other writers get plain text. When rendering fails
// the raw markdown is written and the error returned.
func RenderMarkdown(w io.Writer, content string) error {
	style := glamour.WithStandardStyle("notty")
	if isTerminal(w) {
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWidth))
	if err == nil {
		var rendered string
		if rendered, err = r.Render(content); err == nil {
			_, err = io.WriteString(w, rendered)
			return err
		}
	}

	_, _ = io.WriteString(w, content)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
