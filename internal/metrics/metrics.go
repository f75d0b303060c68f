// Package metrics declares the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProgressRecalculations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studyabroad_progress_recalculations_total",
			Help: "Total number of progress recalculations",
		},
	)

	ProgressMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyabroad_progress_mutations_total",
			Help: "Total number of persisted progress mutations by operation",
		},
		[]string{"operation"},
	)

	Estimates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyabroad_estimates_total",
			Help: "Total number of cost estimates computed, by whether a loan covers tuition",
		},
		[]string{"loan"},
	)

	EstimateValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyabroad_estimate_validation_errors_total",
			Help: "Total number of estimate validation errors by field",
		},
		[]string{"field"},
	)

	RPCDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studyabroad_rpc_duration_seconds",
			Help:    "Duration of RPC handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"procedure", "code"},
	)
)

// LoanLabel returns the label value used by Estimates.
func LoanLabel(covered bool) string {
	if covered {
		return "covered"
	}
	return "none"
}
