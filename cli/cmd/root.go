// ABOUTME: Root command for node-capacity CLI
// ABOUTME: Handles global flags, configuration, and backend selection

package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/markalston/node-capacity-planner/backend/models"
	"github.com/markalston/node-capacity-planner/cli/internal/client"
	"github.com/markalston/node-capacity-planner/cli/internal/local"
)

var (
	apiURL     string
	jsonOutput bool
	offline    bool
)

const defaultAPIURL = "http://localhost:8080"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "node-capacity",
	Short: "CLI for the Node Capacity Planner",
	Long: `node-capacity estimates how many Kubernetes worker nodes a workload needs,
how its pods land on those nodes, and what the nodes cost.

Plans come from the backend API, or are computed in process with --offline.

Environment Variables:
  NODE_CAPACITY_API_URL  Backend API URL (default: http://localhost:8080)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides NODE_CAPACITY_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Compute plans locally with the embedded catalog instead of calling the backend")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("NODE_CAPACITY_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// Planner is what the plan, compare, check and tui commands need from a backend.
// Both the API client and the offline planner satisfy it.
type Planner interface {
	Catalog(ctx context.Context) ([]models.InstanceSpec, error)
	Plan(ctx context.Context, req models.PlanRequest) (*models.PlanResult, error)
	Compare(ctx context.Context, req models.PlanRequest) (*models.ComparisonResponse, error)
}

// newPlanner returns the offline planner with --offline, otherwise the API client
func newPlanner() Planner {
	if offline {
		return local.New(nil)
	}
	return client.New(GetAPIURL())
}
