// Package metrics provides Prometheus metrics for the session service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of a session operation.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeNoop    = "noop"
)

var (
	// TransitionsTotal counts session operations by outcome.
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signpath",
			Name:      "session_transitions_total",
			Help:      "Total number of session operations",
		},
		[]string{"operation", "outcome"},
	)

	// StoreErrorsTotal counts durable record failures.
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signpath",
			Name:      "store_errors_total",
			Help:      "Total number of durable record errors",
		},
		[]string{"operation"},
	)

	// Authenticated is 1 while an identity is current.
	Authenticated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "signpath",
			Name:      "session_authenticated",
			Help:      "Session state (1 = authenticated, 0 = anonymous)",
		},
	)
)

// RecordTransition records a session operation.
func RecordTransition(operation, outcome string) {
	TransitionsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordStoreError records a failed durable record read, write or delete.
func RecordStoreError(operation string) {
	StoreErrorsTotal.WithLabelValues(operation).Inc()
}

// SetAuthenticated updates the authenticated gauge.
func SetAuthenticated(ok bool) {
	if ok {
		Authenticated.Set(1)
		return
	}
	Authenticated.Set(0)
}
