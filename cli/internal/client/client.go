// ABOUTME: HTTP client for the Node Capacity Planner API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/markalston/node-capacity-planner/backend/models"
)

// Client is the API client for the Node Capacity Planner backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the backend URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CatalogResponse is the /api/v1/catalog response
type CatalogResponse struct {
	Instances []models.InstanceSpec `json:"instances"`
	Count     int                   `json:"count"`
}

// Health calls GET /api/v1/health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var health models.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Catalog calls GET /api/v1/catalog
func (c *Client) Catalog(ctx context.Context) ([]models.InstanceSpec, error) {
	var resp CatalogResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/catalog", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Instances, nil
}

// InstanceType calls GET /api/v1/catalog/{id}
func (c *Client) InstanceType(ctx context.Context, id string) (*models.InstanceSpec, error) {
	var spec models.InstanceSpec
	if err := c.do(ctx, http.MethodGet, "/api/v1/catalog/"+url.PathEscape(id), nil, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Plan calls POST /api/v1/plan
func (c *Client) Plan(ctx context.Context, req models.PlanRequest) (*models.PlanResult, error) {
	var result models.PlanResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/plan", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Compare calls POST /api/v1/plan/compare
func (c *Client) Compare(ctx context.Context, req models.PlanRequest) (*models.ComparisonResponse, error) {
	var resp models.ComparisonResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/plan/compare", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends a JSON request and decodes a 2xx JSON response into out
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	if errResp.Details != "" {
		return fmt.Errorf("backend error: %s: %s", errResp.Error, errResp.Details)
	}
	return fmt.Errorf("backend error: %s", errResp.Error)
}
