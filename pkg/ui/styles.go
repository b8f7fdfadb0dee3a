// Package ui renders validation findings and import reports for the
// terminal. Styling degrades to plain text when stdout is piped or
// the terminal lacks color support.
package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/detcover/detcover/pkg/finding"
)

var (
	colorOnce sync.Once
	colorOK   bool
)

// ColorTerminal reports whether stdout can render ANSI color.
// Respects NO_COLOR and detects pipes and dumb terminals.
func ColorTerminal() bool {
	colorOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" {
			return
		}
		colorOK = termenv.NewOutput(os.Stdout).Profile != termenv.Ascii
	})
	return colorOK
}

// Severity and status colors, matching the palette security analysts
// expect from scanner output.
var (
	errColor    = lipgloss.Color("#FF3838")
	warnColor   = lipgloss.Color("#FFB800")
	okColor     = lipgloss.Color("#00D26A")
	mutedColor  = lipgloss.Color("#6B7280")
	headerColor = lipgloss.Color("#7D56F4")
	numberColor = lipgloss.Color("#4D96FF")
)

var (
	ErrorStyle   = lipgloss.NewStyle().Foreground(errColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(warnColor)
	OKStyle      = lipgloss.NewStyle().Foreground(okColor)
	MutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	HeaderStyle  = lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	NumberStyle  = lipgloss.NewStyle().Foreground(numberColor)
	BracketStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// SeverityStyle returns the style for a finding severity.
func SeverityStyle(s finding.Severity) lipgloss.Style {
	if s == finding.Error {
		return ErrorStyle
	}
	return WarningStyle
}

// render applies a style only when the terminal supports it.
func render(style lipgloss.Style, s string) string {
	if !ColorTerminal() {
		return s
	}
	return style.Render(s)
}
