// ABOUTME: Entry point for node-capacity CLI
// ABOUTME: Command-line tool for worker node sizing and CI/CD capacity guards

package main

import (
	"fmt"
	"os"

	"github.com/markalston/node-capacity-planner/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
