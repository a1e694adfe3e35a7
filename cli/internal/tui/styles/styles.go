// ABOUTME: Shared lipgloss styles for the node capacity TUI
// ABOUTME: Palette, panels, frame borders, and per-calculator accent styles

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette
	Primary   = lipgloss.Color("#06B6D4") // Cyan
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Accent    = lipgloss.Color("#22D3EE") // Light cyan for keys and highlights
	Surface   = lipgloss.Color("#374151") // Empty bar cells and node slots
	Info      = lipgloss.Color("#3B82F6") // Blue

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	Label = lipgloss.NewStyle().
		Foreground(Muted).
		Width(18)

	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)
)

// Calculator returns the accent style for a calculator color such as "#007bff".
// An empty color falls back to Primary.
func Calculator(color string) lipgloss.Style {
	if color == "" {
		return lipgloss.NewStyle().Foreground(Primary)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// CalculatorPanel is Panel with the border drawn in the calculator color
func CalculatorPanel(color string, active bool) lipgloss.Style {
	if !active {
		return Panel
	}
	border := lipgloss.Color(color)
	if color == "" {
		border = Primary
	}
	return ActivePanel.BorderForeground(border)
}
