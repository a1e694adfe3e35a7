// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Colored inline badges for plan bottlenecks and utilization levels

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/node-capacity-planner/backend/models"
	"github.com/markalston/node-capacity-planner/cli/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

type badgeColors struct {
	bg, fg lipgloss.Color
}

var levelColors = map[StatusLevel]badgeColors{
	StatusOK:       {lipgloss.Color("#10B981"), lipgloss.Color("#FFFFFF")},
	StatusWarning:  {lipgloss.Color("#F59E0B"), lipgloss.Color("#000000")},
	StatusCritical: {lipgloss.Color("#EF4444"), lipgloss.Color("#FFFFFF")},
	StatusInfo:     {lipgloss.Color("#3B82F6"), lipgloss.Color("#FFFFFF")},
	StatusNeutral:  {lipgloss.Color("#6B7280"), lipgloss.Color("#FFFFFF")},
}

func colorsFor(level StatusLevel) badgeColors {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return levelColors[StatusNeutral]
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	c := colorsFor(level)
	return lipgloss.NewStyle().
		Background(c.bg).
		Foreground(c.fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// StatusFromPercent returns the appropriate status level for a percentage value
func StatusFromPercent(percent, warnThreshold, critThreshold float64) StatusLevel {
	if percent >= critThreshold {
		return StatusCritical
	}
	if percent >= warnThreshold {
		return StatusWarning
	}
	return StatusOK
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	var icon icons.Icon
	switch level {
	case StatusOK:
		icon = icons.CheckOK
	case StatusWarning:
		icon = icons.Warning
	case StatusCritical:
		icon = icons.Critical
	default:
		icon = icons.Info
	}
	style := lipgloss.NewStyle().Foreground(colorsFor(level).bg)
	return fmt.Sprintf("%s %s", style.Render(icon.String()), style.Render(text))
}

// BottleneckBadge labels which resource drives the node count.
// An invalid plan is critical since it places nothing.
func BottleneckBadge(bottleneck string) string {
	switch bottleneck {
	case models.BottleneckCPU:
		return Badge("CPU-BOUND", StatusInfo)
	case models.BottleneckMemory:
		return Badge("MEMORY-BOUND", StatusInfo)
	case models.BottleneckBalanced:
		return Badge("BALANCED", StatusOK)
	case models.BottleneckInvalid:
		return Badge("NO PLAN", StatusCritical)
	default:
		return Badge(strings.ToUpper(bottleneck), StatusNeutral)
	}
}
