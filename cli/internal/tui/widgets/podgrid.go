// ABOUTME: Pod grid widget drawing one colored cell per placed pod
// ABOUTME: Wraps cells into rows and summarizes anything past the row limit

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PodCell is the glyph drawn for each pod
const PodCell = "■"

// PodGrid renders count pod cells, perRow to a line, in color.
// Beyond maxRows the last line reports how many pods were not drawn.
func PodGrid(count, perRow, maxRows int, color lipgloss.Color) string {
	if count <= 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render("(empty)")
	}
	perRow = max(perRow, 1)
	maxRows = max(maxRows, 1)

	drawn := min(count, perRow*maxRows)
	hidden := count - drawn
	if hidden > 0 {
		// leave the last row for the overflow summary
		drawn = perRow * (maxRows - 1)
		hidden = count - drawn
	}

	style := lipgloss.NewStyle().Foreground(color)
	var rows []string
	for start := 0; start < drawn; start += perRow {
		n := min(perRow, drawn-start)
		rows = append(rows, style.Render(strings.Repeat(PodCell, n)))
	}
	if hidden > 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render(fmt.Sprintf("+%d more", hidden)))
	}
	return strings.Join(rows, "\n")
}
