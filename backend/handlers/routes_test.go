// ABOUTME: Tests for route table definitions
// ABOUTME: Verifies all routes have required fields, no duplicates, and register on a mux

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRoutes_AllRoutesHaveRequiredFields(t *testing.T) {
	h := NewHandler(nil, nil, nil)
	routes := h.Routes()

	if len(routes) == 0 {
		t.Fatal("Routes() returned empty slice")
	}

	for i, route := range routes {
		if route.Method == "" {
			t.Errorf("Route %d: Method is empty", i)
		}
		if route.Path == "" {
			t.Errorf("Route %d: Path is empty", i)
		}
		if route.Handler == nil {
			t.Errorf("Route %d: Handler is nil", i)
		}
		if !strings.HasPrefix(route.Path, "/api/v1/") {
			t.Errorf("Route %d: Path %q must start with /api/v1/", i, route.Path)
		}
	}
}

func TestRoutes_NoDuplicatePaths(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	seen := make(map[string]bool)
	for _, route := range h.Routes() {
		key := route.Pattern()
		if seen[key] {
			t.Errorf("Duplicate route: %s", key)
		}
		seen[key] = true
	}
}

func TestRoutes_ExpectedEndpoints(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	expected := map[string]bool{
		"GET /api/v1/health":                 false,
		"GET /api/v1/catalog":                false,
		"GET /api/v1/catalog/{id}":           false,
		"POST /api/v1/plan":                  false,
		"POST /api/v1/plan/compare":          false,
		"GET /api/v1/calculators":            false,
		"POST /api/v1/calculators":           false,
		"GET /api/v1/calculators/{id}":       false,
		"PATCH /api/v1/calculators/{id}":     false,
		"DELETE /api/v1/calculators/{id}":    false,
		"PUT /api/v1/calculators/{id}/input": false,
		"GET /api/v1/calculators/{id}/plan":  false,
		"GET /api/v1/plans":                  false,
		"GET /api/v1/openapi.yaml":           false,
	}

	for _, route := range h.Routes() {
		if _, ok := expected[route.Pattern()]; ok {
			expected[route.Pattern()] = true
		}
	}

	for key, found := range expected {
		if !found {
			t.Errorf("Missing expected route: %s", key)
		}
	}
}

func TestRoutes_RegisterOnServeMux(t *testing.T) {
	h := NewHandler(nil, nil, nil)
	mux := http.NewServeMux()

	// ServeMux panics on conflicting patterns
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Pattern(), route.Handler)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/plan", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for wrong method, got %d", w.Code)
	}
}

func TestOpenAPISpec_Served(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/openapi.yaml", nil)
	w := httptest.NewRecorder()
	h.OpenAPISpec(w, req)

	if ct := w.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q, want application/yaml", ct)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "openapi: 3") {
		t.Error("Expected an OpenAPI 3 document")
	}
	for _, route := range h.Routes() {
		if route.Path == "/api/v1/openapi.yaml" {
			continue
		}
		if !strings.Contains(body, route.Path+":") {
			t.Errorf("OpenAPI document is missing %s", route.Path)
		}
	}
}
