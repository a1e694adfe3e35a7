// ABOUTME: Prometheus collectors for planning outcomes and HTTP traffic
// ABOUTME: Registered on the default registry and served at /metrics

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "ncp"

// Plan outcome label values
const (
	OutcomePlanned    = "planned"
	OutcomeDegenerate = "degenerate"
)

var (
	PlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "plans_total",
			Help:      "Total number of capacity plans computed.",
		},
		[]string{"outcome"},
	)

	PlanRequiredNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "plan_required_nodes",
			Help:      "Required worker node count of non-degenerate plans.",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50, 100, 250, 500, 1000},
		},
	)

	ComparisonsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "comparisons_total",
			Help:      "Total number of instance type comparisons served.",
		},
	)

	ComparisonCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "comparison_feasible_candidates",
			Help:      "Instance types left in a comparison after dropping infeasible ones.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// ObservePlan records one plan served to a caller. Comparison candidates are
// recorded by ObserveComparison instead.
func ObservePlan(requiredNodes int) {
	if requiredNodes == 0 {
		PlansTotal.WithLabelValues(OutcomeDegenerate).Inc()
		return
	}
	PlansTotal.WithLabelValues(OutcomePlanned).Inc()
	PlanRequiredNodes.Observe(float64(requiredNodes))
}

// ObserveComparison records one comparison and how many candidates it kept
func ObserveComparison(feasible int) {
	ComparisonsTotal.Inc()
	ComparisonCandidates.Observe(float64(feasible))
}
