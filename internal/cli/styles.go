package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cliTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C6AE8"))
	cliSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	cliWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))
	cliError   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	cliMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#22C55E")).
			Padding(0, 1)
)

func symSuccess() string { return cliSuccess.Render("✓") }
func symError() string   { return cliError.Render("✗") }
func symWarning() string { return cliWarn.Render("!") }
func symBullet() string  { return cliMuted.Render("•") }

// kvPair is a label/value line inside a summary card.
type kvPair struct {
	key   string
	value string
}

// renderKeyValueLines renders aligned key/value lines.
func renderKeyValueLines(pairs []kvPair) string {
	width := 0
	for _, p := range pairs {
		if len(p.key) > width {
			width = len(p.key)
		}
	}
	var lines []string
	for _, p := range pairs {
		lines = append(lines, fmt.Sprintf("%s  %s",
			cliMuted.Render(fmt.Sprintf("%-*s", width, p.key)), p.value))
	}
	return strings.Join(lines, "\n")
}

// renderSuccessCard renders a bordered completion card with a title line
// and optional detail blocks.
func renderSuccessCard(title string, details ...string) string {
	content := symSuccess() + " " + cliTitle.Render(title)
	for _, d := range details {
		if d != "" {
			content += "\n" + d
		}
	}
	return cardStyle.Render(content)
}
