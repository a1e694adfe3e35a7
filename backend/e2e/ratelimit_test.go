// ABOUTME: End-to-end tests for rate limiting through the full router
// ABOUTME: Tests the write tier, the default tier, and disabled mode

package e2e

import (
	"net/http"
	"testing"
)

func TestRateLimit_E2E_WriteTier(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitWrite = 3
	srv := startServer(t, cfg)

	for i := range 3 {
		resp := send(t, http.MethodPost, srv.URL+"/api/v1/plan", "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d should succeed, got %d", i+1, resp.StatusCode)
		}
	}

	resp := send(t, http.MethodPost, srv.URL+"/api/v1/plan", "", nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("4th write should return 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("Expected Retry-After header on 429 response")
	}
	body := decodeBody[map[string]any](t, resp)
	if body["error"] != "Rate limit exceeded" {
		t.Errorf("Expected error 'Rate limit exceeded', got %v", body["error"])
	}

	// Reads use the separate default tier
	resp = send(t, http.MethodGet, srv.URL+"/api/v1/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Read should not be limited by the write tier, got %d", resp.StatusCode)
	}
}

func TestRateLimit_E2E_PerClient(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitDefault = 2
	srv := startServer(t, cfg)

	first := map[string]string{"X-Forwarded-For": "203.0.113.1"}
	second := map[string]string{"X-Forwarded-For": "203.0.113.2"}

	send(t, http.MethodGet, srv.URL+"/api/v1/catalog", "", first)
	send(t, http.MethodGet, srv.URL+"/api/v1/catalog", "", first)

	if resp := send(t, http.MethodGet, srv.URL+"/api/v1/catalog", "", first); resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("3rd read from the same client should return 429, got %d", resp.StatusCode)
	}
	if resp := send(t, http.MethodGet, srv.URL+"/api/v1/catalog", "", second); resp.StatusCode != http.StatusOK {
		t.Errorf("Another client should not be limited, got %d", resp.StatusCode)
	}
}

func TestRateLimit_E2E_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitWrite = 1
	srv := startServer(t, cfg)

	for i := range 5 {
		resp := send(t, http.MethodPost, srv.URL+"/api/v1/plan", "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d should succeed with rate limiting disabled, got %d", i+1, resp.StatusCode)
		}
	}
}
