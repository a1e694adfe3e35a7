// ABOUTME: Offline planner that runs the backend planning services in process
// ABOUTME: Mirrors the API client so commands work without a running backend

package local

import (
	"context"

	"github.com/markalston/node-capacity-planner/backend/catalog"
	"github.com/markalston/node-capacity-planner/backend/models"
	"github.com/markalston/node-capacity-planner/backend/services"
)

// Planner answers plan, compare and catalog queries from the embedded catalog
type Planner struct {
	catalog  *catalog.Catalog
	planner  *services.Planner
	comparer *services.Comparer
}

// New creates an offline planner over cat, or the embedded catalog when cat is nil
func New(cat *catalog.Catalog) *Planner {
	if cat == nil {
		cat = catalog.Default()
	}
	planner := services.NewPlanner()
	return &Planner{
		catalog:  cat,
		planner:  planner,
		comparer: services.NewComparer(planner, cat, services.DefaultCompareConcurrency),
	}
}

// Catalog returns every instance spec in catalog order
func (p *Planner) Catalog(ctx context.Context) ([]models.InstanceSpec, error) {
	return p.catalog.List(), nil
}

// Plan computes a plan the same way POST /api/v1/plan does
func (p *Planner) Plan(ctx context.Context, req models.PlanRequest) (*models.PlanResult, error) {
	in, err := services.BuildInput(p.catalog, req)
	if err != nil {
		return nil, err
	}
	result := p.planner.Plan(in)
	result.InstanceType = req.InstanceType
	if result.InstanceType == "" {
		result.InstanceType = models.DefaultPlanRequest().InstanceType
	}
	return &result, nil
}

// Compare ranks instance types the same way POST /api/v1/plan/compare does
func (p *Planner) Compare(ctx context.Context, req models.PlanRequest) (*models.ComparisonResponse, error) {
	in, err := services.BuildInput(p.catalog, req)
	if err != nil {
		return nil, err
	}
	plans, err := p.comparer.Compare(ctx, in, req.InstanceTypes)
	if err != nil {
		return nil, err
	}
	return &models.ComparisonResponse{Input: in, Plans: plans}, nil
}
