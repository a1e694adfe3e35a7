// ABOUTME: Placement view showing one calculation's plan
// ABOUTME: Summary blocks, utilization bars, and per-node pod grids in the calculator color

package placement

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/markalston/node-capacity-planner/backend/models"
	"github.com/markalston/node-capacity-planner/cli/internal/tui/icons"
	"github.com/markalston/node-capacity-planner/cli/internal/tui/styles"
	"github.com/markalston/node-capacity-planner/cli/internal/tui/widgets"
)

// Layout constants
const (
	cardWidth   = 24 // lipgloss width of a node card including padding
	cardMargin  = 3  // border plus gap between cards
	podRows     = 4  // pod grid rows per card before summarizing
	nodesToShow = 12 // node cards per page
	minWidth    = 40
)

// View renders a calculation's plan
type View struct {
	title  string
	color  string
	result *models.PlanResult
	width  int
	page   int
}

// New creates a placement view
func New(title, color string, result *models.PlanResult, width int) *View {
	return &View{
		title:  title,
		color:  color,
		result: result,
		width:  width,
	}
}

// SetWidth updates the render width
func (v *View) SetWidth(width int) {
	v.width = width
}

// Pages returns how many pages of node cards the placement spans
func (v *View) Pages() int {
	if v.result == nil || len(v.result.Nodes) == 0 {
		return 1
	}
	return (len(v.result.Nodes) + nodesToShow - 1) / nodesToShow
}

// Page returns the current zero-based page
func (v *View) Page() int {
	return v.page
}

// NextPage advances to the next page of node cards, stopping at the last one
func (v *View) NextPage() {
	if v.page < v.Pages()-1 {
		v.page++
	}
}

// PrevPage moves back one page of node cards
func (v *View) PrevPage() {
	if v.page > 0 {
		v.page--
	}
}

// View renders the plan
func (v *View) View() string {
	if v.result == nil {
		return "No plan yet"
	}

	width := max(v.width, minWidth)
	accent := styles.Calculator(v.color)
	r := v.result

	var sb strings.Builder

	heading := accent.Bold(true).Render(widgets.PodCell+" "+v.title) + "  " +
		styles.Subtitle.Render(r.InstanceType) + "  " +
		widgets.BottleneckBadge(r.Bottleneck)
	sb.WriteString(heading)
	sb.WriteString("\n\n")

	sb.WriteString(v.renderSummary())
	sb.WriteString("\n\n")

	if r.Bottleneck == models.BottleneckInvalid {
		sb.WriteString(widgets.StatusText("No nodes planned: pod and usable node CPU and memory must all be positive", widgets.StatusCritical))
		return lipgloss.NewStyle().Width(width).Render(sb.String())
	}

	sb.WriteString(v.renderUtilization())
	sb.WriteString("\n")

	if r.PlacedNodeCount > r.RequiredNodeCount {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText(
			fmt.Sprintf("First-fit placement uses %d nodes; cost is for the %d required", r.PlacedNodeCount, r.RequiredNodeCount),
			widgets.StatusWarning))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(v.renderNodes(width))

	return sb.String()
}

func (v *View) renderSummary() string {
	r := v.result
	cfg := widgets.DefaultMetricBlockConfig()
	if v.color != "" {
		cfg.TitleColor = lipgloss.Color(v.color)
	}

	pods := 0
	for _, n := range r.Nodes {
		pods += n.PodCount
	}

	nodes := widgets.CountBlock(icons.Node, "Nodes", r.RequiredNodeCount,
		fmt.Sprintf("cpu %d / mem %d", r.NodesByCPU, r.NodesByMemory), cfg)
	cost := widgets.MetricBlock(icons.Cost, "Monthly", "$"+humanize.FormatFloat("#,###.##", r.MonthlyCost),
		fmt.Sprintf("$%.3f / hour", r.HourlyCost), cfg)
	placed := widgets.MetricBlock(icons.Pod, "Pods", humanize.Comma(int64(pods)),
		fmt.Sprintf("on %d nodes", len(r.Nodes)), cfg)

	return lipgloss.JoinHorizontal(lipgloss.Top, nodes, " ", cost, " ", placed)
}

func (v *View) renderUtilization() string {
	r := v.result
	bar := widgets.DefaultProgressBarConfig()
	bar.Width = 30

	var sb strings.Builder
	sb.WriteString(styles.Label.Render(icons.CPU.String() + " CPU"))
	sb.WriteString(widgets.ProgressBarWithLabel(r.CPUUtilPct, bar, true))
	sb.WriteString("  ")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s vCPU usable per node", formatAmount(r.UsableNodeCPU))))
	sb.WriteString("\n")
	sb.WriteString(styles.Label.Render(icons.Memory.String() + " Memory"))
	sb.WriteString(widgets.ProgressBarWithLabel(r.MemoryUtilPct, bar, true))
	sb.WriteString("  ")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s GiB usable per node", formatAmount(r.UsableNodeMemoryGiB))))
	return sb.String()
}

func (v *View) renderNodes(width int) string {
	r := v.result
	page := min(v.page, v.Pages()-1)
	start := page * nodesToShow
	end := min(start+nodesToShow, len(r.Nodes))

	header := styles.Subtitle.Render(fmt.Sprintf("Placement  nodes %d-%d of %d", start+1, end, len(r.Nodes)))
	if v.Pages() > 1 {
		header += styles.Subtitle.Render(fmt.Sprintf("  (page %d/%d)", page+1, v.Pages()))
	}

	perRow := max(1, width/(cardWidth+cardMargin))
	var rows []string
	var row []string
	for i := start; i < end; i++ {
		row = append(row, v.renderNode(i+1, r.Nodes[i]))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return header + "\n" + strings.Join(rows, "\n")
}

// renderNode draws one node card: pod count, utilization, and the pod grid
func (v *View) renderNode(index int, n models.Node) string {
	r := v.result
	inner := cardWidth - 2
	color := lipgloss.Color(v.color)
	if v.color == "" {
		color = styles.Primary
	}

	cpuPct := percentOf(n.UsedCPUVcores, r.UsableNodeCPU)
	memPct := percentOf(n.UsedMemoryGiB, r.UsableNodeMemoryGiB)
	barCfg := widgets.DefaultProgressBarConfig()
	miniBar := func(label string, pct float64) string {
		level := widgets.StatusFromPercent(pct, barCfg.WarnThreshold, barCfg.CritThreshold)
		barColor := barCfg.OKColor
		switch level {
		case widgets.StatusWarning:
			barColor = barCfg.WarnColor
		case widgets.StatusCritical:
			barColor = barCfg.CritColor
		}
		return fmt.Sprintf("%-4s%s %3.0f%%", label, widgets.CompactProgressBar(pct, inner-9, barColor), pct)
	}

	title := fmt.Sprintf("Node %d", index)
	count := fmt.Sprintf("%d pods", n.PodCount)
	gap := max(1, inner-lipgloss.Width(title)-lipgloss.Width(count))

	body := strings.Join([]string{
		styles.ValueStyle.Render(title) + strings.Repeat(" ", gap) + styles.Subtitle.Render(count),
		miniBar("CPU", cpuPct),
		miniBar("Mem", memPct),
		widgets.PodGrid(n.PodCount, inner, podRows, color),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(cardWidth).
		Padding(0, 1).
		MarginRight(1).
		Render(body)
}

func percentOf(used, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return used / total * 100
}

func formatAmount(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
