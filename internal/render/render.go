// Package render styles terminal output. Colours are dropped automatically
// when stdout is not a terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
	"github.com/Tiliavir/tacho-tracker/internal/model"
)

var (
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#40A9FF"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)

	statusStyles = map[model.Status]lipgloss.Style{
		model.StatusDrive:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7A45")).Bold(true),
		model.StatusWork:      lipgloss.NewStyle().Foreground(lipgloss.Color("#40A9FF")).Bold(true),
		model.StatusAvailable: lipgloss.NewStyle().Foreground(lipgloss.Color("#B37FEB")).Bold(true),
		model.StatusRest:      lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true),
		model.StatusIdle:      mutedStyle,
	}
)

// Severity renders text in the colour of s.
func Severity(s compliance.Severity, text string) string {
	switch s {
	case compliance.SeverityActive:
		return activeStyle.Render(text)
	case compliance.SeverityWarning:
		return warningStyle.Render(text)
	case compliance.SeverityCritical:
		return criticalStyle.Render(text)
	default:
		return normalStyle.Render(text)
	}
}

// Check renders a classifier status as its message, prefixed with a marker
// for anything above normal.
func Check(s compliance.Status) string {
	msg := s.Message()
	switch s.Severity {
	case compliance.SeverityWarning:
		msg = "! " + msg
	case compliance.SeverityCritical:
		msg = "!! " + msg
	}
	return Severity(s.Severity, msg)
}

// Status renders a duty status as an upper-case label.
func Status(s model.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		style = mutedStyle
	}
	return style.Render(strings.ToUpper(string(s)))
}

func Muted(text string) string { return mutedStyle.Render(text) }

func Header(text string) string { return headerStyle.Render(text) }

// Bar draws a fixed-width gauge filled to percent.
func Bar(percent float64, width int, s compliance.Severity) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + Severity(s, strings.Repeat("#", filled)) + Muted(strings.Repeat(".", width-filled)) + "]"
}

// Pad fills s with spaces on the right up to width display columns.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
