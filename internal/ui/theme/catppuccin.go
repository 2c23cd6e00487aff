package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
)

var (
	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Ok    = lipgloss.NewStyle().Foreground(Green)
	Error = lipgloss.NewStyle().Foreground(Red).Bold(true)

	Preview = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle)

	TabActive   = lipgloss.NewStyle().Foreground(Base).Background(Lavender).Bold(true).Padding(0, 2)
	TabInactive = lipgloss.NewStyle().Foreground(Subtext0).Background(Mantle).Padding(0, 2)
	StatusBar   = lipgloss.NewStyle().Foreground(Text).Background(Mantle).Padding(0, 1)
)

// Check renders the selection marker of a picker row.
func Check(selected bool) string {
	if selected {
		return Ok.Render("[x]")
	}
	return Muted.Render("[ ]")
}
