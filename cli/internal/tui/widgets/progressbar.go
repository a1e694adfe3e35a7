// ABOUTME: Utilization bars with visual threshold zones
// ABOUTME: Shows green/amber/red regions for node CPU and memory utilization

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/node-capacity-planner/cli/internal/tui/icons"
)

// ProgressBarConfig holds configuration for the progress bar
type ProgressBarConfig struct {
	Width         int
	WarnThreshold float64 // percentage where the warning zone starts
	CritThreshold float64 // percentage where the critical zone starts
	OKColor       lipgloss.Color
	WarnColor     lipgloss.Color
	CritColor     lipgloss.Color
	EmptyColor    lipgloss.Color
	ShowZones     bool // draw threshold markers in the empty part of the bar
}

// DefaultProgressBarConfig returns a 20-cell bar that warns at 80% and goes critical at 95%
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:         20,
		WarnThreshold: 80,
		CritThreshold: 95,
		OKColor:       lipgloss.Color("#10B981"),
		WarnColor:     lipgloss.Color("#F59E0B"),
		CritColor:     lipgloss.Color("#EF4444"),
		EmptyColor:    lipgloss.Color("#374151"),
		ShowZones:     true,
	}
}

// level returns the zone color and icon for a percentage
func (c ProgressBarConfig) level(percent float64) (lipgloss.Color, icons.Icon) {
	switch {
	case percent >= c.CritThreshold:
		return c.CritColor, icons.Critical
	case percent >= c.WarnThreshold:
		return c.WarnColor, icons.Warning
	default:
		return c.OKColor, icons.CheckOK
	}
}

func clampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// ProgressBar renders a bar whose filled cells take the color of the zone they sit in
func ProgressBar(percent float64, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}
	percent = clampPercent(percent)

	filled := int(percent / 100.0 * float64(config.Width))
	warnPos := int(config.WarnThreshold / 100.0 * float64(config.Width))
	critPos := int(config.CritThreshold / 100.0 * float64(config.Width))

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < config.Width; i++ {
		char, color := "░", config.EmptyColor
		switch {
		case i < filled && i >= critPos:
			char, color = "█", config.CritColor
		case i < filled && i >= warnPos:
			char, color = "█", config.WarnColor
		case i < filled:
			char, color = "█", config.OKColor
		case config.ShowZones && (i == warnPos || i == critPos):
			char = "│"
		}
		bar.WriteString(lipgloss.NewStyle().Foreground(color).Render(char))
	}
	bar.WriteString("]")
	return bar.String()
}

// ProgressBarWithLabel renders the bar followed by the percentage and a status icon
func ProgressBarWithLabel(percent float64, config ProgressBarConfig, showPercent bool) string {
	bar := ProgressBar(percent, config)
	if !showPercent {
		return bar
	}

	color, icon := config.level(percent)
	style := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("%s %s %s", bar, style.Render(fmt.Sprintf("%5.1f%%", percent)), style.Render(icon.String()))
}

// CompactProgressBar renders a borderless bar for tight spaces such as node cards
func CompactProgressBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}
	filled := int(clampPercent(percent) / 100.0 * float64(width))

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")).Render(strings.Repeat("░", width-filled))
}
