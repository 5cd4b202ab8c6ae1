package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Colors holds the palette used across the CLI.
type Colors struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
}

// Theme bundles the palette with derived lipgloss styles.
type Theme struct {
	NoColor bool
	Colors  Colors

	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultTheme returns the satchel color theme. NO_COLOR in the
// environment disables styling.
func DefaultTheme() *Theme {
	colors := Colors{
		Primary:   "#7C6AE8",
		Secondary: "#45C4B0",
		Success:   "#22C55E",
		Warning:   "#EAB308",
		Error:     "#EF4444",
		Muted:     "#6B7280",
	}

	t := &Theme{
		NoColor: os.Getenv("NO_COLOR") != "",
		Colors:  colors,
	}
	if t.NoColor {
		plain := lipgloss.NewStyle()
		t.Title, t.Success, t.Warning, t.Error, t.Muted = plain, plain, plain, plain, plain
		return t
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Primary))
	t.Success = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Success))
	t.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Warning))
	t.Error = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Error))
	t.Muted = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Muted))
	return t
}
