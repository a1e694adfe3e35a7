// ABOUTME: Compare command for node-capacity CLI
// ABOUTME: Ranks instance types by the monthly cost of hosting one workload

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
	compareOpts      planFlags
	compareInstances []string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Rank instance types by monthly cost",
	Long: `Plan the same workload on several instance types and rank them by monthly cost.

Without --instances every named catalog type is compared.

Example:
  node-capacity compare --pods 300 --pod-memory 2Gi --instances m5.2xlarge,r5.2xlarge,c5.4xlarge`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		req := compareOpts.request()
		req.InstanceTypes = compareInstances
		return runCompare(ctx, newPlanner(), os.Stdout, req, IsJSONOutput())
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareOpts.register(compareCmd)
	compareCmd.Flags().StringSliceVar(&compareInstances, "instances", nil, "Instance types to compare (default: whole catalog)")
}

func runCompare(ctx context.Context, p Planner, w io.Writer, req models.PlanRequest, jsonOut bool) error {
	resp, err := p.Compare(ctx, req)
	if err != nil {
		return err
	}

	if jsonOut {
		return writeJSON(w, resp)
	}

	formatComparisonHuman(w, resp)
	return nil
}
