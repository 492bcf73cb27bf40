package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconciliations_total",
			Help: "Reconciliation attempts by flow and outcome",
		},
		[]string{"flow", "outcome"},
	)

	inventoryShort = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_short_total",
			Help: "Captured payments whose inventory decrement was rejected",
		},
	)

	checkoutSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Checkout session creations by status",
		},
		[]string{"status"},
	)
)

func ObserveReconciliation(flow, outcome string) {
	reconciliations.WithLabelValues(flow, outcome).Inc()
}

func ObserveInventoryShort() {
	inventoryShort.Inc()
}

func ObserveCheckoutSession(status string) {
	checkoutSessions.WithLabelValues(status).Inc()
}
