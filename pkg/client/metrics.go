package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for request pipeline operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotify_requests_total",
		Help: "Total API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spotify_request_duration_seconds",
		Help:    "API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotify_errors_total",
		Help: "Total request failures by class",
	}, []string{"class"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotify_request_retries_total",
		Help: "Total retry attempts by reason",
	}, []string{"reason"})

	retryWaitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spotify_retry_wait_seconds",
		Help:    "Time spent waiting before retries by reason",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"reason"})

	dedupAttachedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spotify_deduplicated_requests_total",
		Help: "Requests served by attaching to an identical in-flight request",
	})
)
