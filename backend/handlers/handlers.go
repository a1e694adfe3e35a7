// ABOUTME: HTTP handlers for the capacity planner API
// ABOUTME: Wires config, cache, catalog, and planning services behind JSON endpoints

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/markalston/node-capacity-planner/backend/cache"
	"github.com/markalston/node-capacity-planner/backend/catalog"
	"github.com/markalston/node-capacity-planner/backend/config"
	"github.com/markalston/node-capacity-planner/backend/models"
	"github.com/markalston/node-capacity-planner/backend/services"
)

// maxRequestBodySize limits JSON request bodies to 1MB
const maxRequestBodySize = 1 << 20 // 1MB

// errEmptyBody is returned by decodeJSON when the request has no body
var errEmptyBody = errors.New("empty request body")

type Handler struct {
	cfg         *config.Config
	cache       *cache.Cache
	catalog     *catalog.Catalog
	planner     *services.Planner
	comparer    *services.Comparer
	calculators *services.CalculatorService

	catalogFlight singleflight.Group
}

// NewHandler creates the API handler. Nil arguments fall back to defaults so the
// route table can be inspected without a running service.
func NewHandler(cfg *config.Config, c *cache.Cache, cat *catalog.Catalog) *Handler {
	if cfg == nil {
		cfg = &config.Config{
			CacheTTL:           300,
			CalculatorTTL:      86400,
			CompareConcurrency: services.DefaultCompareConcurrency,
		}
	}
	if c == nil {
		c = cache.New(cfg.CacheDuration())
	}
	if cat == nil {
		cat = catalog.Default()
	}

	planner := services.NewPlanner()
	return &Handler{
		cfg:         cfg,
		cache:       c,
		catalog:     cat,
		planner:     planner,
		comparer:    services.NewComparer(planner, cat, cfg.CompareConcurrency),
		calculators: services.NewCalculatorService(c, cat, planner, cfg.CalculatorDuration()),
	}
}

// Health reports service status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:          "ok",
		CatalogSize:     h.catalog.Len(),
		CalculatorCount: h.calculators.Count(),
		Timestamp:       time.Now().UTC(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeErrorWithDetails(w, message, "", code)
}

func (h *Handler) writeErrorWithDetails(w http.ResponseWriter, message, details string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error:   message,
		Details: details,
		Code:    code,
	})
}

// decodeJSON reads a size-limited JSON body into v.
// It writes the 400 response itself and returns false on failure, except for
// errEmptyBody which is reported to the caller when allowEmpty is set.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	// MaxBytesReader only triggers on read, so decode body FIRST
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) {
		if allowEmpty {
			return true
		}
		h.writeError(w, errEmptyBody.Error(), http.StatusBadRequest)
		return false
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.writeError(w, "Request body too large", http.StatusBadRequest)
		return false
	}
	h.writeErrorWithDetails(w, "Invalid JSON", err.Error(), http.StatusBadRequest)
	return false
}

// writeServiceError maps service errors to HTTP status codes
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCalculatorNotFound):
		h.writeError(w, "Calculator not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrUnknownInstance):
		h.writeErrorWithDetails(w, "Unknown instance type", err.Error(), http.StatusBadRequest)
	default:
		h.writeErrorWithDetails(w, "Invalid request", err.Error(), http.StatusBadRequest)
	}
}
