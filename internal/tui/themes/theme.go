// Package themes holds the color schemes of the load browser.
package themes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/loadboard/internal/cli"
)

// Theme is the set of styles the browser draws with.
type Theme struct {
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Bold        lipgloss.Style
	Selected    lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	BorderedBox lipgloss.Style
	StatusError lipgloss.Style
	Border      lipgloss.Color
}

// Default follows the command-line palette so summary output and the
// browser look alike.
var Default = Theme{
	Border: cli.BorderColor,

	Title:  lipgloss.NewStyle().Bold(true).Foreground(cli.AccentColor),
	Subtle: cli.SubtleStyle,
	Bold:   lipgloss.NewStyle().Bold(true),
	Selected: lipgloss.NewStyle().
		Background(cli.AccentColor).
		Foreground(lipgloss.Color("#1D1D1D")).
		Bold(true),
	ActiveTab: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1D1D1D")).
		Background(cli.AccentColor).
		Padding(0, 2),
	InactiveTab: lipgloss.NewStyle().
		Foreground(cli.SubtleColor).
		Padding(0, 2),
	BorderedBox: cli.BoxStyle,
	StatusError: cli.ErrorStyle.Bold(true),
}

// Mono renders without color for terminals that cannot show it.
var Mono = Theme{
	Border:      lipgloss.Color(""),
	Title:       lipgloss.NewStyle().Bold(true),
	Subtle:      lipgloss.NewStyle().Faint(true),
	Bold:        lipgloss.NewStyle().Bold(true),
	Selected:    lipgloss.NewStyle().Reverse(true),
	ActiveTab:   lipgloss.NewStyle().Reverse(true).Padding(0, 2),
	InactiveTab: lipgloss.NewStyle().Padding(0, 2),
	BorderedBox: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	StatusError: lipgloss.NewStyle().Bold(true),
}
