package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "konduto_client",
			Name:      "requests_total",
			Help:      "Konduto API calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "konduto_client",
			Name:      "request_duration_seconds",
			Help:      "Latency of Konduto API calls",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 10},
		},
		[]string{"operation"},
	)

	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "konduto_client",
			Name:      "order_cache_hits_total",
			Help:      "GetOrder calls served from the cache",
		},
	)

	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "konduto_client",
			Name:      "order_cache_misses_total",
			Help:      "GetOrder calls that went to the API",
		},
	)
)
