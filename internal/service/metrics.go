package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	advisoriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrisense_advisories_total",
		Help: "Advisories computed, by crop and resulting severity.",
	}, []string{"crop", "severity"})

	providerFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrisense_provider_fallbacks_total",
		Help: "Provider calls that degraded to fallback data.",
	}, []string{"provider"})

	advisoryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "agrisense_advisory_duration_seconds",
		Help:    "End-to-end advisory computation latency.",
		Buckets: prometheus.DefBuckets,
	})
)
