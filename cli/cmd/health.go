// ABOUTME: Health command for node-capacity CLI
// ABOUTME: Checks backend connectivity and service status

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/markalston/node-capacity-planner/backend/models"
	"github.com/markalston/node-capacity-planner/cli/internal/client"
	"github.com/markalston/node-capacity-planner/cli/internal/local"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long: `Check connectivity to the Node Capacity Planner backend and report how many
instance types and calculators it holds. With --offline, reports the embedded catalog.

Exit codes:
  0  backend reachable
  2  backend unreachable or returned an error`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if code := runHealth(ctx, os.Stdout); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// healthReport is what the health command prints, in either format
type healthReport struct {
	Source string `json:"source"`
	models.HealthResponse
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	report, err := checkHealth(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		if err := writeJSON(w, report); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		return 0
	}
	fmt.Fprintln(w, formatHealthHuman(report))
	return 0
}

func checkHealth(ctx context.Context) (*healthReport, error) {
	if offline {
		specs, err := local.New(nil).Catalog(ctx)
		if err != nil {
			return nil, err
		}
		return &healthReport{
			Source: plannerSource(),
			HealthResponse: models.HealthResponse{
				Status:      "offline",
				CatalogSize: len(specs),
				Timestamp:   time.Now().UTC(),
			},
		}, nil
	}

	resp, err := client.New(GetAPIURL()).Health(ctx)
	if err != nil {
		return nil, err
	}
	return &healthReport{Source: plannerSource(), HealthResponse: *resp}, nil
}

// formatHealthHuman formats a health report for human readability
func formatHealthHuman(r *healthReport) string {
	checked := "unknown"
	if !r.Timestamp.IsZero() {
		checked = humanize.Time(r.Timestamp)
	}
	return fmt.Sprintf(`Source:       %s
Status:       %s
Catalog:      %d instance types
Calculators:  %d
Checked:      %s`, r.Source, r.Status, r.CatalogSize, r.CalculatorCount, checked)
}
