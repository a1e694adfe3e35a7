// ABOUTME: Plan command for node-capacity CLI
// ABOUTME: Sizes worker nodes for one workload and shows cost and placement

package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/node-capacity-planner/backend/models"
)

var (
	planOpts      planFlags
	showPlacement bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Size worker nodes for a workload",
	Long: `Compute how many worker nodes of an instance type host a peak pod count,
simulate first-fit pod placement, and estimate monthly and hourly cost.

Example:
  node-capacity plan --pods 100 --pod-cpu 500m --pod-memory 1Gi --instance m5.4xlarge
  node-capacity plan --instance custom --node-vcpu 8 --node-memory 32 --monthly-cost 280 --offline`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runPlan(ctx, newPlanner(), os.Stdout, planOpts.request(), showPlacement, IsJSONOutput())
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planOpts.register(planCmd)
	planCmd.Flags().BoolVar(&showPlacement, "show-placement", false, "Show the pods placed on each node")
}

func runPlan(ctx context.Context, p Planner, w io.Writer, req models.PlanRequest, placement, jsonOut bool) error {
	result, err := p.Plan(ctx, req)
	if err != nil {
		return err
	}

	if jsonOut {
		return writeJSON(w, result)
	}

	formatPlanHuman(w, result, placement)
	return nil
}
