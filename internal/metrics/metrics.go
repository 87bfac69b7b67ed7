package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync outcomes used as the "outcome" label.
const (
	OutcomeSynced       = "synced"
	OutcomeExisting     = "existing"
	OutcomeCached       = "cached"
	OutcomeRaceLost     = "race_lost"
	OutcomeNoWallet     = "no_wallet"
	OutcomeUnauthorized = "unauthorized"
	OutcomeError        = "error"
)

var SyncTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "walletsync_sync_total",
		Help: "Number of wallet sync requests by outcome.",
	},
	[]string{"outcome"},
)

var SyncDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "walletsync_sync_duration_seconds",
		Help: "Duration of wallet sync requests.",
		Buckets: []float64{
			0.01,
			0.05,
			0.1, // 100 ms
			0.25,
			0.5,
			1,
			2.5,
			5,
		},
	},
	[]string{"outcome"},
)

var ConflictsResolved = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "walletsync_conflicts_resolved_total",
		Help: "Uniqueness conflicts resolved by re-reading the winning row.",
	},
	[]string{"entity"},
)

var NotificationsSent = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "walletsync_notifications_total",
		Help: "Provisioning notifications by channel and result.",
	},
	[]string{"channel", "result"},
)
