// Package metrics provides the centralized Prometheus registry handle for
// the library. All metrics are defined in their owning packages (client,
// auth, paging, batch) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the library.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - spotify_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - spotify_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - spotify_errors_total{class} (Counter): Errors by class (client, server, auth, rate_limit, network)
//   - spotify_request_retries_total{reason} (Counter): Retry attempts by reason (auth, rate_limit, network)
//   - spotify_retry_wait_seconds{reason} (Histogram): Time spent waiting before retries
//   - spotify_deduplicated_requests_total (Counter): Requests served by attaching to an in-flight duplicate
//
// Token Metrics (pkg/auth):
//   - spotify_token_refreshes_total{grant_type, outcome} (Counter): Token endpoint calls by grant and outcome
//   - spotify_token_refresh_duration_seconds (Histogram): Token endpoint call duration
//   - spotify_token_lookups_total{source} (Counter): Token acquisitions by source (memory, store, attached, network)
//
// Collection Metrics (pkg/paging, pkg/batch):
//   - spotify_pages_fetched_total (Counter): Pages fetched across all collection walks
//   - spotify_batch_chunks_total (Counter): Batch chunks executed
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(spotify_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(spotify_request_duration_seconds_bucket[5m]))
//
//   # Rate Limit Pressure
//   rate(spotify_request_retries_total{reason="rate_limit"}[5m])
//
//   # Token Cache Effectiveness
//   sum(rate(spotify_token_lookups_total{source="memory"}[5m])) /
//   sum(rate(spotify_token_lookups_total[5m]))
//
//   # Dedup Savings
//   rate(spotify_deduplicated_requests_total[5m])
