package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for token acquisition.
var (
	tokenRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotify_token_refreshes_total",
		Help: "Total token-endpoint exchanges by grant type and outcome",
	}, []string{"grant_type", "outcome"})

	tokenRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spotify_token_refresh_duration_seconds",
		Help:    "Token-endpoint round-trip duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	tokenLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotify_token_lookups_total",
		Help: "Token lookups served without a fresh exchange, by source (memory, store, attached)",
	}, []string{"source"})
)
