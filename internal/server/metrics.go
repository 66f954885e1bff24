package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts API requests by tool and response status.
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finance_calculators_requests_total",
			Help: "API requests by tool and HTTP status",
		},
		[]string{"tool", "status"},
	)

	// calculationSeconds times the calculation behind each request, cache lookups included.
	calculationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finance_calculators_calculation_seconds",
			Help:    "Time spent producing a calculation result",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"tool"},
	)

	// cacheLookups counts result cache hits and misses.
	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finance_calculators_cache_lookups_total",
			Help: "Result cache lookups by tool and outcome",
		},
		[]string{"tool", "result"},
	)
)
