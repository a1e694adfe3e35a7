// ABOUTME: Prometheus instrumentation middleware for HTTP handlers
// ABOUTME: Counts requests and observes latency labeled by route pattern

package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/markalston/node-capacity-planner/backend/metrics"
)

// Instrument records request count and duration for every request.
// The path label is the matched route pattern so IDs in URLs do not create new series.
func Instrument(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrapResponseWriter(w)

		next(wrapped, r)

		path := routeLabel(r)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	}
}

// routeLabel returns the path part of the pattern that matched r
func routeLabel(r *http.Request) string {
	pattern := r.Pattern
	if pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
