// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
}

// Pattern returns the Go 1.22 ServeMux pattern for the route
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & Status
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},

		// Catalog
		{Method: http.MethodGet, Path: "/api/v1/catalog", Handler: h.ListCatalog},
		{Method: http.MethodGet, Path: "/api/v1/catalog/{id}", Handler: h.GetInstanceType},

		// Planning
		{Method: http.MethodPost, Path: "/api/v1/plan", Handler: h.Plan},
		{Method: http.MethodPost, Path: "/api/v1/plan/compare", Handler: h.ComparePlans},

		// Calculators
		{Method: http.MethodGet, Path: "/api/v1/calculators", Handler: h.ListCalculators},
		{Method: http.MethodPost, Path: "/api/v1/calculators", Handler: h.CreateCalculator},
		{Method: http.MethodGet, Path: "/api/v1/calculators/{id}", Handler: h.GetCalculator},
		{Method: http.MethodPatch, Path: "/api/v1/calculators/{id}", Handler: h.RenameCalculator},
		{Method: http.MethodDelete, Path: "/api/v1/calculators/{id}", Handler: h.DeleteCalculator},
		{Method: http.MethodPut, Path: "/api/v1/calculators/{id}/input", Handler: h.UpdateCalculatorInput},
		{Method: http.MethodGet, Path: "/api/v1/calculators/{id}/plan", Handler: h.GetCalculatorPlan},
		{Method: http.MethodGet, Path: "/api/v1/plans", Handler: h.ListPlans},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}
