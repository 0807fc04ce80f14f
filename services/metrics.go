package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the operational hot paths: ledger mutations,
// recalculations, realtime fan-out and the storage boundary.
var (
	recalculationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pedalpost_recalculations_total",
		Help: "Number of full analytics recalculations performed.",
	})

	orderMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pedalpost_order_mutations_total",
		Help: "Number of order ledger mutations by operation.",
	}, []string{"op"})

	persistenceFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pedalpost_persistence_failures_total",
		Help: "Number of storage writes that failed and were logged (best-effort semantics).",
	})

	realtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pedalpost_realtime_clients",
		Help: "Number of currently connected realtime subscribers.",
	})

	skippedOrdersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pedalpost_recalc_skipped_orders_total",
		Help: "Number of malformed orders skipped during aggregation.",
	})
)
