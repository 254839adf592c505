package paging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "spotify_pages_fetched_total",
	Help: "Total pages fetched across all collection walks",
})
