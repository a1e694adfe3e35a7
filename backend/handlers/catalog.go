// ABOUTME: HTTP handlers for the instance type catalog
// ABOUTME: Lists instance specs from a cached payload and looks up single types

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/markalston/node-capacity-planner/backend/models"
)

const catalogCacheKey = "catalog:all"

// CatalogResponse lists the instance types a plan can use
type CatalogResponse struct {
	Instances []models.InstanceSpec `json:"instances"`
	Count     int                   `json:"count"`
}

// ListCatalog returns every instance spec in catalog order.
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(catalogCacheKey); found {
		slog.Debug("Catalog cache hit")
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	// Concurrent misses share one build
	resp, _, shared := h.catalogFlight.Do(catalogCacheKey, func() (any, error) {
		specs := h.catalog.List()
		resp := CatalogResponse{Instances: specs, Count: len(specs)}
		h.cache.Set(catalogCacheKey, resp)
		return resp, nil
	})
	if shared {
		slog.Debug("Catalog build shared")
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GetInstanceType returns one instance spec.
func (h *Handler) GetInstanceType(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	spec, ok := h.catalog.Lookup(id)
	if !ok {
		h.writeError(w, "Unknown instance type", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, spec)
}
