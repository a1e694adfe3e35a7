// ABOUTME: HTTP router assembly for the capacity planner backend
// ABOUTME: Registers the route table behind the middleware chain and optional /metrics

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markalston/node-capacity-planner/backend/config"
	"github.com/markalston/node-capacity-planner/backend/handlers"
	"github.com/markalston/node-capacity-planner/backend/middleware"
)

// rateLimitWindow is the fixed window both rate limit tiers count in
const rateLimitWindow = time.Minute

// NewRouter registers every API route on a new ServeMux.
// Each route runs through Recover, LogRequest, Instrument, CORS and RateLimit in that order.
func NewRouter(cfg *config.Config, h *handlers.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	var tiers *middleware.Tiers
	if cfg.RateLimitEnabled {
		tiers = middleware.NewTiers(cfg.RateLimitDefault, cfg.RateLimitWrite, rateLimitWindow)
	}
	limit := middleware.RateLimit(tiers, middleware.ClientIP)

	var instrument middleware.Middleware
	if cfg.MetricsEnabled {
		instrument = middleware.Instrument
	}
	cors := middleware.CORSWithConfig(cfg.CORSAllowedOrigins)

	preflight := make(map[string]bool)
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Pattern(), middleware.Chain(route.Handler,
			middleware.Recover,
			middleware.LogRequest,
			instrument,
			cors,
			limit,
		))

		// Preflight requests carry OPTIONS, which no route declares
		if preflight[route.Path] {
			continue
		}
		preflight[route.Path] = true
		mux.HandleFunc(http.MethodOptions+" "+route.Path, middleware.Chain(preflightOnly, cors))
	}

	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	return mux
}

// preflightOnly is reached only when CORS did not answer the OPTIONS request itself
func preflightOnly(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
