// ABOUTME: Test helpers for e2e tests
// ABOUTME: Starts the full router behind httptest and sends JSON requests to it

package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/markalston/node-capacity-planner/backend/cache"
	"github.com/markalston/node-capacity-planner/backend/catalog"
	"github.com/markalston/node-capacity-planner/backend/config"
	"github.com/markalston/node-capacity-planner/backend/handlers"
	"github.com/markalston/node-capacity-planner/backend/server"
)

// testConfig returns a config with rate limiting off, which tests enable as needed
func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		CacheTTL:           300,
		CalculatorTTL:      3600,
		RateLimitWrite:     30,
		RateLimitDefault:   100,
		CompareConcurrency: 4,
		MetricsEnabled:     true,
	}
}

// startServer runs the router built from cfg until the test ends
func startServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	c := cache.New(cfg.CacheDuration())
	t.Cleanup(c.Close)

	h := handlers.NewHandler(cfg, c, catalog.Default())
	srv := httptest.NewServer(server.NewRouter(cfg, h))
	t.Cleanup(srv.Close)
	return srv
}

// send issues a request with an optional JSON body and extra headers
func send(t *testing.T, method, url, body string, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// decodeBody decodes a JSON response into T
func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}
