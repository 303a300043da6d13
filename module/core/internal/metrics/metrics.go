package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LocationUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geotoll",
		Subsystem: "tracking",
		Name:      "location_updates_total",
		Help:      "Location updates processed, by result",
	}, []string{"result"})

	UpdateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geotoll",
		Subsystem: "tracking",
		Name:      "update_duration_seconds",
		Help:      "Time spent evaluating one location update",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})

	TollSettlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geotoll",
		Subsystem: "ledger",
		Name:      "toll_settlements_total",
		Help:      "Toll zone evaluations, by outcome (success, failed, deduplicated)",
	}, []string{"outcome"})

	DangerAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geotoll",
		Subsystem: "tracking",
		Name:      "danger_alerts_total",
		Help:      "Danger zone alerts raised, by severity",
	}, []string{"severity"})

	ZoneFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geotoll",
		Subsystem: "tracking",
		Name:      "zone_failures_total",
		Help:      "Per-zone processing failures that did not abort the update",
	}, []string{"kind"})

	Recharges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geotoll",
		Subsystem: "ledger",
		Name:      "wallet_recharges_total",
		Help:      "Wallet recharges, by result",
	}, []string{"result"})
)
