// ABOUTME: Ranks instance types by the cost of hosting the same pod workload
// ABOUTME: Plans every candidate concurrently and sorts the feasible plans by monthly cost

package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/markalston/node-capacity-planner/backend/catalog"
	"github.com/markalston/node-capacity-planner/backend/models"
)

// DefaultCompareConcurrency bounds parallel plans when none is configured
const DefaultCompareConcurrency = 4

// Comparer plans one workload against several instance types
type Comparer struct {
	planner     *Planner
	catalog     *catalog.Catalog
	concurrency int
}

// NewComparer creates a comparer. concurrency < 1 falls back to DefaultCompareConcurrency.
func NewComparer(planner *Planner, cat *catalog.Catalog, concurrency int) *Comparer {
	if concurrency < 1 {
		concurrency = DefaultCompareConcurrency
	}
	return &Comparer{
		planner:     planner,
		catalog:     cat,
		concurrency: concurrency,
	}
}

// Compare plans in against each instance type in ids, or every named catalog type when
// ids is empty. Node capacity and cost in in are replaced per type. Plans needing zero
// nodes or more than MaxNodes are dropped; the rest are sorted by monthly cost, then
// instance type.
func (c *Comparer) Compare(ctx context.Context, in models.SizingInput, ids []string) ([]models.PlanResult, error) {
	if len(ids) == 0 {
		ids = c.catalog.Named()
	}

	results := make([]models.PlanResult, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			candidate, err := c.catalog.Select(id, in)
			if err != nil {
				return fmt.Errorf("comparing %s: %w", id, err)
			}
			if err := CheckNodeBudget(candidate); err != nil {
				slog.Debug("Skipping instance type over the node budget", "instance_type", id, "error", err)
				return nil
			}
			plan := c.planner.Plan(candidate)
			plan.InstanceType = id
			results[i] = plan
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]models.PlanResult, 0, len(results))
	for _, plan := range results {
		if plan.RequiredNodeCount <= 0 {
			continue
		}
		ranked = append(ranked, plan)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MonthlyCost != ranked[j].MonthlyCost {
			return ranked[i].MonthlyCost < ranked[j].MonthlyCost
		}
		return ranked[i].InstanceType < ranked[j].InstanceType
	})

	slog.Debug("Compared instance types", "candidates", len(ids), "feasible", len(ranked))
	return ranked, nil
}
