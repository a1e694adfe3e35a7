// ABOUTME: TUI command for node-capacity CLI
// ABOUTME: Launches the interactive calculator against the backend or offline planner

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markalston/node-capacity-planner/cli/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive node calculator",
	Long: `Open an interactive calculator. Each calculation collects a workload and an
instance type, then shows the required nodes, cost, and how first-fit placement
spreads the pods across nodes.

Keys on the results screen:
  a          add another calculation
  e          edit the active calculation
  d          remove the active calculation
  tab        cycle calculations
  ←/→        page through node cards
  r          replan every calculation
  q          quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(newPlanner(), plannerSource())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// plannerSource names where plans come from, for the TUI header
func plannerSource() string {
	if offline {
		return "offline"
	}
	return fmt.Sprintf("api %s", GetAPIURL())
}
