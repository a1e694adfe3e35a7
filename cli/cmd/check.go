// ABOUTME: Check command for node-capacity CLI
// ABOUTME: Fails CI/CD pipelines when a workload plan exceeds node or cost limits

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/node-capacity-planner/backend/models"
)

var (
	checkOpts      planFlags
	maxNodes       int
	maxMonthlyCost float64
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a plan against node and cost limits",
	Long: `Plan a workload and exit non-zero if it needs more nodes or money than allowed.

A limit of 0 disables that check.

Exit codes:
  0 - All checks passed
  1 - One or more limits exceeded
  2 - Error (connectivity, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCheck(ctx, newPlanner(), os.Stdout, checkOpts.request())
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkOpts.register(checkCmd)
	checkCmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "Maximum required worker nodes (0 = no limit)")
	checkCmd.Flags().Float64Var(&maxMonthlyCost, "max-monthly-cost", 0, "Maximum monthly cost (0 = no limit)")
}

// checkResult represents the result of a single limit check
type checkResult struct {
	name   string
	value  float64
	limit  float64
	unit   string
	passed bool
}

// runCheck plans the workload, checks the limits, and returns the exit code
func runCheck(ctx context.Context, p Planner, w io.Writer, req models.PlanRequest) int {
	if err := validateLimits(maxNodes, maxMonthlyCost); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	result, err := p.Plan(ctx, req)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	results := performChecks(result, maxNodes, maxMonthlyCost)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(result, results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	_, failed := countResults(results)
	if failed > 0 {
		return 1
	}
	return 0
}

// validateLimits ensures limit values are usable
func validateLimits(nodes int, cost float64) error {
	if nodes < 0 {
		return fmt.Errorf("--max-nodes must not be negative")
	}
	if cost < 0 {
		return fmt.Errorf("--max-monthly-cost must not be negative")
	}
	return nil
}

// performChecks compares the plan against each enabled limit
func performChecks(result *models.PlanResult, nodes int, cost float64) []checkResult {
	var results []checkResult

	if nodes > 0 {
		results = append(results, checkResult{
			name:   "Required nodes",
			value:  float64(result.RequiredNodeCount),
			limit:  float64(nodes),
			passed: result.RequiredNodeCount <= nodes,
		})
	}

	if cost > 0 {
		results = append(results, checkResult{
			name:   "Monthly cost",
			value:  result.MonthlyCost,
			limit:  cost,
			unit:   "$",
			passed: result.MonthlyCost <= cost,
		})
	}

	return results
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

// formatValue renders a check value with its unit
func (r checkResult) formatValue(v float64) string {
	if r.unit == "$" {
		return formatCost(v)
	}
	return fmt.Sprintf("%.0f", v)
}

// formatCheckHuman formats check results for human readability
func formatCheckHuman(results []checkResult) string {
	if len(results) == 0 {
		return "No limits set. Use --max-nodes or --max-monthly-cost."
	}

	var output string
	for _, r := range results {
		symbol := "✓"
		if !r.passed {
			symbol = "✗"
		}
		output += fmt.Sprintf("%s %s: %s (limit: %s)\n", symbol, r.name, r.formatValue(r.value), r.formatValue(r.limit))
	}

	passed, failed := countResults(results)
	if failed > 0 {
		output += fmt.Sprintf("\nFAILED: %d check(s) exceeded limit", failed)
	} else {
		output += fmt.Sprintf("\nPASSED: All %d check(s) within limits", passed)
	}

	return output
}

// formatCheckJSON formats check results as JSON
func formatCheckJSON(result *models.PlanResult, results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]interface{}, len(results))
	for i, r := range results {
		checks[i] = map[string]interface{}{
			"name":   r.name,
			"value":  r.value,
			"limit":  r.limit,
			"passed": r.passed,
		}
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	output := map[string]interface{}{
		"status":              status,
		"instance_type":       result.InstanceType,
		"required_node_count": result.RequiredNodeCount,
		"monthly_cost":        result.MonthlyCost,
		"checks":              checks,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
