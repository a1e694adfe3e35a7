// ABOUTME: HTTP handlers for one-off capacity plans and instance type comparison
// ABOUTME: Converts plan requests through the catalog and runs the planner

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/markalston/node-capacity-planner/backend/metrics"
	"github.com/markalston/node-capacity-planner/backend/models"
	"github.com/markalston/node-capacity-planner/backend/services"
)

// Plan computes a capacity plan for the request body.
// Fields missing from the body take the default calculator inputs.
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	req := models.DefaultPlanRequest()
	if !h.decodeJSON(w, r, &req, true) {
		return
	}

	in, err := services.BuildInput(h.catalog, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	result := h.planner.Plan(in)
	result.InstanceType = req.InstanceType
	metrics.ObservePlan(result.RequiredNodeCount)

	slog.Debug("Plan computed",
		"instance_type", req.InstanceType,
		"peak_pods", in.PeakPods,
		"required_nodes", result.RequiredNodeCount,
		"placed_nodes", result.PlacedNodeCount,
	)

	h.writeJSON(w, http.StatusOK, result)
}

// ComparePlans ranks instance types by the monthly cost of the same workload.
// instance_types limits the candidates; empty compares the whole catalog.
func (h *Handler) ComparePlans(w http.ResponseWriter, r *http.Request) {
	req := models.DefaultPlanRequest()
	if !h.decodeJSON(w, r, &req, true) {
		return
	}

	in, err := services.BuildInput(h.catalog, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	plans, err := h.comparer.Compare(r.Context(), in, req.InstanceTypes)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	metrics.ObserveComparison(len(plans))

	h.writeJSON(w, http.StatusOK, models.ComparisonResponse{
		Input: in,
		Plans: plans,
	})
}
