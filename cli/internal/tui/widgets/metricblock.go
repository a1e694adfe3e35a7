// ABOUTME: Compact metric block widget for plan summaries
// ABOUTME: Title-in-border panel holding one headline value and a subtitle

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/node-capacity-planner/cli/internal/tui/icons"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       22,
		BorderColor: lipgloss.Color("#6B7280"),
		TitleColor:  lipgloss.Color("#06B6D4"),
		ValueColor:  lipgloss.Color("#F9FAFB"),
	}
}

// MetricBlock renders a compact metric display block:
//
//	┌─ ▣ Nodes ──────────┐
//	│  4                 │
//	│  cpu-bound         │
//	└────────────────────┘
func MetricBlock(icon icons.Icon, title, value, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 22
	}
	innerWidth := config.Width - 4

	titleText := truncate(fmt.Sprintf("%s %s", icon.String(), title), innerWidth)
	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)
	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)

	top := borderStyle.Render("┌─ ") + titleStyle.Render(titleText) + " " +
		borderStyle.Render(strings.Repeat("─", max(0, innerWidth-lipgloss.Width(titleText)-1))+"┐")

	line := func(content string) string {
		pad := max(0, innerWidth-lipgloss.Width(content))
		return borderStyle.Render("│  ") + content + strings.Repeat(" ", pad) + borderStyle.Render("│")
	}

	bottom := borderStyle.Render("└" + strings.Repeat("─", config.Width-2) + "┘")

	return strings.Join([]string{
		top,
		line(valueStyle.Render(truncate(value, innerWidth))),
		line(subtitleStyle.Render(truncate(subtitle, innerWidth))),
		bottom,
	}, "\n")
}

// CountBlock renders a simple count metric such as the required node count
func CountBlock(icon icons.Icon, title string, count int, label string, config MetricBlockConfig) string {
	return MetricBlock(icon, title, fmt.Sprintf("%d", count), label, config)
}

// truncate shortens a string to maxLen cells with an ellipsis if needed
func truncate(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:min(len(runes), maxLen)])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > maxLen {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
