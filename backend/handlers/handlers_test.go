package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/markalston/node-capacity-planner/backend/cache"
	"github.com/markalston/node-capacity-planner/backend/catalog"
	"github.com/markalston/node-capacity-planner/backend/config"
	"github.com/markalston/node-capacity-planner/backend/metrics"
	"github.com/markalston/node-capacity-planner/backend/models"
)

func newTestHandler(t *testing.T) (*Handler, *http.ServeMux) {
	t.Helper()
	cfg := &config.Config{
		CacheTTL:           300,
		CalculatorTTL:      3600,
		CompareConcurrency: 2,
	}
	c := cache.New(5 * time.Minute)
	t.Cleanup(c.Close)

	h := NewHandler(cfg, c, catalog.Default())
	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Pattern(), route.Handler)
	}
	return h, mux
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}

func TestHealthHandler(t *testing.T) {
	_, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodGet, "/api/v1/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	resp := decode[models.HealthResponse](t, w)
	if resp.Status != "ok" {
		t.Errorf("Expected status ok, got %q", resp.Status)
	}
	if resp.CatalogSize != 21 {
		t.Errorf("Expected catalog size 21, got %d", resp.CatalogSize)
	}
	if resp.CalculatorCount != 0 {
		t.Errorf("Expected no calculators, got %d", resp.CalculatorCount)
	}
}

func TestListCatalog_CachesPayload(t *testing.T) {
	h, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodGet, "/api/v1/catalog", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	resp := decode[CatalogResponse](t, w)
	if resp.Count != 21 || len(resp.Instances) != 21 {
		t.Errorf("Expected 21 instances, got %d/%d", resp.Count, len(resp.Instances))
	}

	if _, found := h.cache.Get(catalogCacheKey); !found {
		t.Error("Expected catalog payload to be cached")
	}

	w = doRequest(mux, http.MethodGet, "/api/v1/catalog", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected cached response 200, got %d", w.Code)
	}
}

func TestListCatalog_ConcurrentMisses(t *testing.T) {
	_, mux := newTestHandler(t)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := doRequest(mux, http.MethodGet, "/api/v1/catalog", "")
			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
				return
			}
			var resp CatalogResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Errorf("decode: %v", err)
				return
			}
			if resp.Count != 21 {
				t.Errorf("Expected 21 instances, got %d", resp.Count)
			}
		}()
	}
	wg.Wait()
}

func TestGetInstanceType(t *testing.T) {
	_, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodGet, "/api/v1/catalog/m5.4xlarge", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	spec := decode[models.InstanceSpec](t, w)
	if spec.VCPU != 16 || spec.MemoryGiB != 64 || spec.MonthlyCost != 691.20 {
		t.Errorf("Unexpected spec %+v", spec)
	}

	w = doRequest(mux, http.MethodGet, "/api/v1/catalog/z9.mega", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown type, got %d", w.Code)
	}
}

func TestPlan_DefaultWorkload(t *testing.T) {
	_, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodPost, "/api/v1/plan", `{"instance_type":"m5.4xlarge","peak_pods":100,"pod_cpu_millicores":500,"pod_memory_gib":1,"cpu_overhead_pct":10,"memory_overhead_pct":10}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	result := decode[models.PlanResult](t, w)
	if result.RequiredNodeCount != 4 {
		t.Errorf("Expected 4 required nodes, got %d", result.RequiredNodeCount)
	}
	if len(result.Nodes) != 4 {
		t.Errorf("Expected 4 placed nodes, got %d", len(result.Nodes))
	}
	if math.Abs(result.MonthlyCost-2764.80) > 1e-6 {
		t.Errorf("Expected monthly 2764.80, got %v", result.MonthlyCost)
	}
	if math.Abs(result.HourlyCost-3.787) > 0.001 {
		t.Errorf("Expected hourly ≈ 3.787, got %v", result.HourlyCost)
	}
	if result.InstanceType != "m5.4xlarge" {
		t.Errorf("Expected instance type echoed, got %q", result.InstanceType)
	}
}

func TestPlan_EmptyBodyUsesDefaults(t *testing.T) {
	_, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodPost, "/api/v1/plan", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if result := decode[models.PlanResult](t, w); result.RequiredNodeCount != 4 {
		t.Errorf("Expected default plan of 4 nodes, got %d", result.RequiredNodeCount)
	}
}

func TestPlan_DegenerateReturnsEmptyArray(t *testing.T) {
	_, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodPost, "/api/v1/plan", `{"pod_memory_gib":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"nodes":[]`) {
		t.Errorf("Expected an empty nodes array, got %s", w.Body.String())
	}
}

func TestPlan_Custom(t *testing.T) {
	_, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodPost, "/api/v1/plan", `{"instance_type":"custom","node_vcpu":8,"node_memory_gib":32,"instance_monthly_cost":300}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	// 50 vCPU over 7.2 usable = 7 nodes
	result := decode[models.PlanResult](t, w)
	if result.RequiredNodeCount != 7 {
		t.Errorf("Expected 7 required nodes, got %d", result.RequiredNodeCount)
	}
	if math.Abs(result.MonthlyCost-2100) > 1e-6 {
		t.Errorf("Expected monthly 2100, got %v", result.MonthlyCost)
	}
}

func TestPlan_FullOverheadAccepted(t *testing.T) {
	_, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodPost, "/api/v1/plan", `{"cpu_overhead_pct":100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if result := decode[models.PlanResult](t, w); result.RequiredNodeCount != 0 || len(result.Nodes) != 0 {
		t.Errorf("Expected degenerate plan, got %+v", result.PlacementResult)
	}
}

func TestPlan_BadRequests(t *testing.T) {
	_, mux := newTestHandler(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"peak_pods":`, "Invalid JSON"},
		{"wrong type", `{"peak_pods":"many"}`, "Invalid JSON"},
		{"unknown instance", `{"instance_type":"z9.mega"}`, "Unknown instance type"},
		{"overhead above 100", `{"memory_overhead_pct":120}`, "Invalid request"},
		{"negative overhead", `{"cpu_overhead_pct":-5}`, "Invalid request"},
		{"oversize body", `{"instance_type":"` + strings.Repeat("a", maxRequestBodySize) + `"}`, "Request body too large"},
		{"peak pods over limit", `{"peak_pods":10001}`, "Invalid request"},
		{"huge pod cpu", `{"pod_cpu_millicores":1e308,"pod_memory_gib":1e308}`, "Invalid request"},
		{"huge pod memory", `{"pod_memory_gib":1e24}`, "Invalid request"},
		{"over node budget", `{"peak_pods":10000,"pod_cpu_millicores":15000}`, "Invalid request"},
		{"tiny custom node", `{"instance_type":"custom","node_vcpu":0.000001,"node_memory_gib":64}`, "Invalid request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(mux, http.MethodPost, "/api/v1/plan", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", w.Code)
			}
			resp := decode[models.ErrorResponse](t, w)
			if resp.Error != tt.want {
				t.Errorf("Expected error %q, got %q", tt.want, resp.Error)
			}
			if resp.Code != http.StatusBadRequest {
				t.Errorf("Expected code 400 in body, got %d", resp.Code)
			}
		})
	}
}

func TestPlan_NegativePeakPods(t *testing.T) {
	_, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodPost, "/api/v1/plan", `{"peak_pods":-5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	result := decode[models.PlanResult](t, w)
	if result.RequiredNodeCount != 0 || result.PlacedNodeCount != 0 {
		t.Errorf("Expected a zero-node plan, got %d required / %d placed", result.RequiredNodeCount, result.PlacedNodeCount)
	}
	if result.MonthlyCost != 0 {
		t.Errorf("Expected zero cost, got %v", result.MonthlyCost)
	}
	if !strings.Contains(w.Body.String(), `"nodes":[]`) {
		t.Errorf("Expected an empty nodes array, got %s", w.Body.String())
	}
}

func TestPlan_LargestAcceptedWorkload(t *testing.T) {
	_, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodPost, "/api/v1/plan", `{"peak_pods":10000,"pod_cpu_millicores":14000}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	result := decode[models.PlanResult](t, w)
	if result.RequiredNodeCount != 9723 || result.PlacedNodeCount != 10000 {
		t.Errorf("Expected 9723 required / 10000 placed, got %d / %d", result.RequiredNodeCount, result.PlacedNodeCount)
	}
	if result.MonthlyCost <= 0 {
		t.Errorf("Expected a positive cost, got %v", result.MonthlyCost)
	}
}

func TestPlanMetrics_CountRequestsNotCandidates(t *testing.T) {
	_, mux := newTestHandler(t)
	planned := metrics.PlansTotal.WithLabelValues(metrics.OutcomePlanned)

	before := testutil.ToFloat64(planned)
	beforeCompare := testutil.ToFloat64(metrics.ComparisonsTotal)

	doRequest(mux, http.MethodPost, "/api/v1/plan/compare", "")
	if got := testutil.ToFloat64(planned) - before; got != 0 {
		t.Errorf("Comparison should not count as plans, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.ComparisonsTotal) - beforeCompare; got != 1 {
		t.Errorf("Expected 1 comparison, got %v", got)
	}

	doRequest(mux, http.MethodPost, "/api/v1/plan", "")
	if got := testutil.ToFloat64(planned) - before; got != 1 {
		t.Errorf("Expected 1 plan, got %v", got)
	}
}

func TestComparePlans(t *testing.T) {
	_, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodPost, "/api/v1/plan/compare", `{"instance_types":["m5.4xlarge","c5.4xlarge","r5.4xlarge"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[models.ComparisonResponse](t, w)
	if len(resp.Plans) != 3 {
		t.Fatalf("Expected 3 plans, got %d", len(resp.Plans))
	}
	// c5.4xlarge: 4 nodes at 572.32 is cheapest
	if resp.Plans[0].InstanceType != "c5.4xlarge" {
		t.Errorf("Expected c5.4xlarge first, got %s", resp.Plans[0].InstanceType)
	}
	if resp.Input.PeakPods != 100 {
		t.Errorf("Expected input echoed, got %+v", resp.Input)
	}
}

func TestComparePlans_UnknownType(t *testing.T) {
	_, mux := newTestHandler(t)

	w := doRequest(mux, http.MethodPost, "/api/v1/plan/compare", `{"instance_types":["z9.mega"]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestCalculators_Lifecycle(t *testing.T) {
	_, mux := newTestHandler(t)

	// Create with defaults
	w := doRequest(mux, http.MethodPost, "/api/v1/calculators", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	first := decode[models.Calculator](t, w)
	if w.Header().Get("Location") != "/api/v1/calculators/"+first.ID {
		t.Errorf("Unexpected Location header %q", w.Header().Get("Location"))
	}
	if first.Title != "Application" || first.Color != "#007bff" {
		t.Errorf("Unexpected defaults %q/%q", first.Title, first.Color)
	}

	// Create with partial request
	w = doRequest(mux, http.MethodPost, "/api/v1/calculators", `{"title":"Batch","request":{"peak_pods":200}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create: expected 201, got %d", w.Code)
	}
	second := decode[models.Calculator](t, w)
	if second.Request.PodCPUMillicores != 500 || second.Plan.RequiredNodeCount != 7 {
		t.Errorf("Expected defaults merged into request, got %+v / %d nodes", second.Request, second.Plan.RequiredNodeCount)
	}

	// List
	w = doRequest(mux, http.MethodGet, "/api/v1/calculators", "")
	list := decode[CalculatorListResponse](t, w)
	if list.Count != 2 || list.Calculators[0].ID != first.ID {
		t.Errorf("Expected 2 calculators in creation order, got %+v", list)
	}

	// Rename
	w = doRequest(mux, http.MethodPatch, "/api/v1/calculators/"+first.ID, `{"title":"Frontend"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Rename: expected 200, got %d", w.Code)
	}
	if renamed := decode[models.Calculator](t, w); renamed.Title != "Frontend" {
		t.Errorf("Expected title Frontend, got %q", renamed.Title)
	}

	// Update input
	w = doRequest(mux, http.MethodPut, "/api/v1/calculators/"+first.ID+"/input", `{"instance_type":"m5.large","peak_pods":10}`)
	if w.Code != http.StatusOK {
		t.Fatalf("UpdateInput: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Plan
	w = doRequest(mux, http.MethodGet, "/api/v1/calculators/"+first.ID+"/plan", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Plan: expected 200, got %d", w.Code)
	}
	// 5 vCPU over 1.8 usable = 3 nodes
	if plan := decode[models.PlanResult](t, w); plan.RequiredNodeCount != 3 || plan.InstanceType != "m5.large" {
		t.Errorf("Expected 3 m5.large nodes, got %d %s", plan.RequiredNodeCount, plan.InstanceType)
	}

	// Plans for all
	w = doRequest(mux, http.MethodGet, "/api/v1/plans", "")
	if all := decode[CalculatorListResponse](t, w); all.Count != 2 {
		t.Errorf("Expected 2 planned calculators, got %d", all.Count)
	}

	// Delete
	w = doRequest(mux, http.MethodDelete, "/api/v1/calculators/"+first.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("Delete: expected 204, got %d", w.Code)
	}
	w = doRequest(mux, http.MethodGet, "/api/v1/calculators/"+first.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}
}

func TestCalculators_Errors(t *testing.T) {
	_, mux := newTestHandler(t)
	missing := "12345678-1234-1234-1234-123456789abc"

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed id", http.MethodGet, "/api/v1/calculators/not-a-uuid", "", http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/api/v1/calculators/" + missing, "", http.StatusNotFound},
		{"unknown plan", http.MethodGet, "/api/v1/calculators/" + missing + "/plan", "", http.StatusNotFound},
		{"rename without body", http.MethodPatch, "/api/v1/calculators/" + missing, "", http.StatusBadRequest},
		{"update unknown", http.MethodPut, "/api/v1/calculators/" + missing + "/input", `{}`, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/api/v1/calculators/" + missing, "", http.StatusNotFound},
		{"create bad overhead", http.MethodPost, "/api/v1/calculators", `{"request":{"cpu_overhead_pct":101}}`, http.StatusBadRequest},
		{"create long title", http.MethodPost, "/api/v1/calculators", `{"title":"` + strings.Repeat("t", 101) + `"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(mux, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestWriteJSON_SetsContentType(t *testing.T) {
	h, _ := newTestHandler(t)
	w := httptest.NewRecorder()

	h.writeJSON(w, http.StatusAccepted, map[string]int{"n": 1})

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if w.Code != http.StatusAccepted {
		t.Errorf("Status = %d, want 202", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"n":1`)) {
		t.Errorf("Unexpected body %s", w.Body.String())
	}
}
