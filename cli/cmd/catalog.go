// ABOUTME: Catalog command for node-capacity CLI
// ABOUTME: Lists the instance types plans can use with capacity and cost

package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List instance types",
	Long:  `List the instance types in the catalog with vCPU, memory, and monthly and hourly cost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runCatalog(ctx, newPlanner(), os.Stdout, IsJSONOutput())
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(ctx context.Context, p Planner, w io.Writer, jsonOut bool) error {
	specs, err := p.Catalog(ctx)
	if err != nil {
		return err
	}

	if jsonOut {
		return writeJSON(w, specs)
	}

	formatCatalogHuman(w, specs)
	return nil
}
