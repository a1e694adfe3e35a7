// ABOUTME: HTTP handlers for calculator CRUD and re-planning
// ABOUTME: Each calculator is an independent sizing session keyed by UUID

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/markalston/node-capacity-planner/backend/models"
	"github.com/markalston/node-capacity-planner/backend/services"
)

// CreateCalculatorRequest is the optional body of a calculator create.
// Missing request fields take the default calculator inputs.
type CreateCalculatorRequest struct {
	Title   string          `json:"title"`
	Request json.RawMessage `json:"request,omitempty"`
}

// CalculatorListResponse wraps calculators in creation order
type CalculatorListResponse struct {
	Calculators []models.Calculator `json:"calculators"`
	Count       int                 `json:"count"`
}

// ListCalculators returns every live calculator in creation order.
func (h *Handler) ListCalculators(w http.ResponseWriter, r *http.Request) {
	calcs := h.calculators.List()
	h.writeJSON(w, http.StatusOK, CalculatorListResponse{Calculators: calcs, Count: len(calcs)})
}

// CreateCalculator adds a calculator. An empty body creates one with default inputs.
func (h *Handler) CreateCalculator(w http.ResponseWriter, r *http.Request) {
	var body CreateCalculatorRequest
	if !h.decodeJSON(w, r, &body, true) {
		return
	}

	var req *models.PlanRequest
	if len(body.Request) > 0 {
		merged := models.DefaultPlanRequest()
		if err := json.Unmarshal(body.Request, &merged); err != nil {
			h.writeErrorWithDetails(w, "Invalid JSON", err.Error(), http.StatusBadRequest)
			return
		}
		req = &merged
	}

	calc, err := h.calculators.Create(body.Title, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/calculators/"+calc.ID)
	h.writeJSON(w, http.StatusCreated, calc)
}

// GetCalculator returns one calculator.
func (h *Handler) GetCalculator(w http.ResponseWriter, r *http.Request) {
	id, ok := h.calculatorID(w, r)
	if !ok {
		return
	}

	calc, err := h.calculators.Get(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, calc)
}

// RenameCalculator patches the calculator's title.
func (h *Handler) RenameCalculator(w http.ResponseWriter, r *http.Request) {
	id, ok := h.calculatorID(w, r)
	if !ok {
		return
	}

	var patch models.CalculatorPatch
	if !h.decodeJSON(w, r, &patch, false) {
		return
	}

	calc, err := h.calculators.Rename(id, patch)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, calc)
}

// UpdateCalculatorInput replaces the calculator's inputs and recomputes its plan.
func (h *Handler) UpdateCalculatorInput(w http.ResponseWriter, r *http.Request) {
	id, ok := h.calculatorID(w, r)
	if !ok {
		return
	}

	req := models.DefaultPlanRequest()
	if !h.decodeJSON(w, r, &req, false) {
		return
	}

	calc, err := h.calculators.UpdateInput(id, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, calc)
}

// GetCalculatorPlan returns the calculator's current plan.
func (h *Handler) GetCalculatorPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.calculatorID(w, r)
	if !ok {
		return
	}

	calc, err := h.calculators.Get(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, calc.Plan)
}

// DeleteCalculator removes a calculator.
func (h *Handler) DeleteCalculator(w http.ResponseWriter, r *http.Request) {
	id, ok := h.calculatorID(w, r)
	if !ok {
		return
	}

	if err := h.calculators.Delete(id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPlans re-plans every calculator and returns them in creation order.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	calcs, err := h.calculators.PlanAll(r.Context(), h.cfg.CompareConcurrency)
	if err != nil {
		slog.Error("Failed to plan calculators", "error", err)
		h.writeErrorWithDetails(w, "Failed to plan calculators", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, CalculatorListResponse{Calculators: calcs, Count: len(calcs)})
}

// calculatorID validates the {id} path value, writing 400 when malformed
func (h *Handler) calculatorID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if err := services.ValidateCalculatorID(id); err != nil {
		h.writeErrorWithDetails(w, "Invalid calculator ID", err.Error(), http.StatusBadRequest)
		return "", false
	}
	return id, true
}
