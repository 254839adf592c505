package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var chunksTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "spotify_batch_chunks_total",
	Help: "Total batch chunks executed",
})
