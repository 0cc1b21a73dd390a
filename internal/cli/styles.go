// Package cli renders loads, category series and command feedback for the
// terminal.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Pending loads are amber like a dock light; completed loads are
// green.
var (
	AccentColor    = lipgloss.Color("#F4A261")
	CompletedColor = lipgloss.Color("#2A9D8F")
	PendingColor   = lipgloss.Color("#E9C46A")
	ErrorColor     = lipgloss.Color("#E76F51")
	SubtleColor    = lipgloss.Color("#6C757D")
	BorderColor    = lipgloss.Color("#3A3A3A")
)

var (
	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor).
			MarginBottom(1)

	CompletedStyle = lipgloss.NewStyle().Foreground(CompletedColor)
	PendingStyle   = lipgloss.NewStyle().Foreground(PendingColor)
	ErrorStyle     = lipgloss.NewStyle().Foreground(ErrorColor)
	SubtleStyle    = lipgloss.NewStyle().Foreground(SubtleColor)

	// BoxStyle frames one load.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// LabelStyle aligns header labels in load boxes.
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(16)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(BorderColor)

	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	TruckIcon   = "🚚"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return CompletedStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return PendingStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return SubtleStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the truck icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(TruckIcon + " " + title)
}

// RenderBox renders content under a title inside a rounded frame.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}
