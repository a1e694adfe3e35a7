// ABOUTME: Human-readable rendering of plans, comparisons, and the catalog
// ABOUTME: Uses go-pretty tables and humanize for money formatting

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/markalston/node-capacity-planner/backend/models"
)

// formatCost renders a dollar amount with thousands separators and cents
func formatCost(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a light-styled table writer that renders to w
func newTable(w io.Writer, header table.Row, rightAligned ...int) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, n := range rightAligned {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	return t
}

// formatPlanHuman renders the plan summary, and the per-node placement when requested
func formatPlanHuman(w io.Writer, result *models.PlanResult, showPlacement bool) {
	fmt.Fprintf(w, "Capacity Plan: %s\n", result.InstanceType)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 15+len(result.InstanceType)))

	if result.Bottleneck == models.BottleneckInvalid {
		fmt.Fprintln(w, "Required nodes:  0")
		fmt.Fprintln(w, "\nNo nodes planned: node capacity after overhead, or the pod's CPU or memory, is zero.")
		return
	}

	fmt.Fprintf(w, "Required nodes:  %d (%s-bound: %d by CPU, %d by memory)\n",
		result.RequiredNodeCount, result.Bottleneck, result.NodesByCPU, result.NodesByMemory)
	fmt.Fprintf(w, "Usable per node: %.2f vCPU, %.2f GiB\n", result.UsableNodeCPU, result.UsableNodeMemoryGiB)
	fmt.Fprintf(w, "Utilization:     CPU %.1f%%, memory %.1f%%\n", result.CPUUtilPct, result.MemoryUtilPct)
	fmt.Fprintf(w, "Monthly cost:    %s\n", formatCost(result.MonthlyCost))
	fmt.Fprintf(w, "Hourly cost:     %s\n", formatCost(result.HourlyCost))

	if result.PlacedNodeCount != result.RequiredNodeCount {
		fmt.Fprintf(w, "\nNote: first-fit placement uses %d nodes; cost is based on the %d required.\n",
			result.PlacedNodeCount, result.RequiredNodeCount)
	}

	if !showPlacement || len(result.Nodes) == 0 {
		return
	}

	fmt.Fprintln(w)
	t := newTable(w, table.Row{"Node", "Pods", "CPU (vCPU)", "CPU %", "Memory (GiB)", "Memory %"}, 1, 2, 3, 4, 5, 6)
	for i, n := range result.Nodes {
		t.AppendRow(table.Row{
			i + 1,
			n.PodCount,
			fmt.Sprintf("%.2f", n.UsedCPUVcores),
			fmt.Sprintf("%.1f", percentOf(n.UsedCPUVcores, result.UsableNodeCPU)),
			fmt.Sprintf("%.2f", n.UsedMemoryGiB),
			fmt.Sprintf("%.1f", percentOf(n.UsedMemoryGiB, result.UsableNodeMemoryGiB)),
		})
	}
	t.Render()
}

// formatComparisonHuman renders ranked plans, cheapest first
func formatComparisonHuman(w io.Writer, resp *models.ComparisonResponse) {
	fmt.Fprintf(w, "Instance Comparison: %d pods at %.0fm CPU, %.2f GiB\n\n",
		resp.Input.PeakPods, resp.Input.PodCPUMillicores, resp.Input.PodMemoryGiB)

	if len(resp.Plans) == 0 {
		fmt.Fprintln(w, "No instance type can host this workload.")
		return
	}

	t := newTable(w, table.Row{"#", "Instance", "Nodes", "Bottleneck", "CPU %", "Memory %", "Monthly", "Hourly"}, 1, 3, 5, 6, 7, 8)
	for i, p := range resp.Plans {
		t.AppendRow(table.Row{
			i + 1,
			p.InstanceType,
			p.RequiredNodeCount,
			p.Bottleneck,
			fmt.Sprintf("%.1f", p.CPUUtilPct),
			fmt.Sprintf("%.1f", p.MemoryUtilPct),
			formatCost(p.MonthlyCost),
			formatCost(p.HourlyCost),
		})
	}
	t.Render()
}

// formatCatalogHuman renders the instance catalog
func formatCatalogHuman(w io.Writer, specs []models.InstanceSpec) {
	t := newTable(w, table.Row{"Instance", "vCPU", "Memory (GiB)", "Monthly", "Hourly"}, 2, 3, 4, 5)
	for _, s := range specs {
		if s.IsCustom() {
			t.AppendRow(table.Row{s.ID, "-", "-", "-", "-"})
			continue
		}
		t.AppendRow(table.Row{
			s.ID,
			humanize.FormatFloat("#,###.", s.VCPU),
			humanize.FormatFloat("#,###.", s.MemoryGiB),
			formatCost(s.MonthlyCost),
			formatCost(s.MonthlyCost / models.HoursPerMonth),
		})
	}
	t.Render()
}

func percentOf(used, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return used / capacity * 100
}
