// ABOUTME: Tests for CORS and chain middleware
// ABOUTME: Verifies origin whitelisting, preflight handling, and middleware ordering

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// tag returns middleware that records name around the wrapped handler
func tag(name string, trace *[]string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			*trace = append(*trace, name+">")
			next(w, r)
			*trace = append(*trace, "<"+name)
		}
	}
}

func TestChain_OrderAndNilSkipping(t *testing.T) {
	var trace []string
	handler := Chain(func(w http.ResponseWriter, r *http.Request) {
		trace = append(trace, "plan")
	}, tag("recover", &trace), nil, tag("log", &trace))

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/plan", nil))

	got := strings.Join(trace, " ")
	if want := "recover> log> plan <log <recover"; got != want {
		t.Errorf("trace = %q, want %q", got, want)
	}
}

func TestChain_NoMiddleware(t *testing.T) {
	called := false
	Chain(func(w http.ResponseWriter, r *http.Request) { called = true })(
		httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Error("handler should run with an empty chain")
	}
}

func TestCORSWithConfig(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantOrigin  string
		wantStatus  int
		wantHandler bool
	}{
		{"allowed origin echoed", []string{"https://ops.example.com", "http://localhost:5173"}, http.MethodGet, "http://localhost:5173", "http://localhost:5173", http.StatusOK, true},
		{"unlisted origin gets no headers", []string{"https://ops.example.com"}, http.MethodGet, "https://other.example.net", "", http.StatusOK, true},
		{"empty list blocks everything", nil, http.MethodGet, "https://ops.example.com", "", http.StatusOK, true},
		{"wildcard echoes any origin", []string{"*"}, http.MethodGet, "https://anywhere.test", "https://anywhere.test", http.StatusOK, true},
		{"same origin request", []string{"https://ops.example.com"}, http.MethodGet, "", "", http.StatusOK, true},
		{"preflight answered", []string{"https://ops.example.com"}, http.MethodOptions, "https://ops.example.com", "https://ops.example.com", http.StatusNoContent, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := CORSWithConfig(tc.allowed)(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tc.method, "/api/v1/plan", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if called != tc.wantHandler {
				t.Errorf("handler called = %v, want %v", called, tc.wantHandler)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tc.wantOrigin)
			}
			if tc.wantOrigin == "" {
				return
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != corsAllowMethods {
				t.Errorf("Access-Control-Allow-Methods = %q", got)
			}
			if got := rec.Header().Get("Vary"); got != "Origin" {
				t.Errorf("Vary = %q, want Origin", got)
			}
		})
	}
}
