package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MintResults counts terminal pipeline outcomes by error kind, with
	// "ok" for successful runs.
	MintResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ctsync",
		Name:      "mint_results_total",
		Help:      "Terminal evidence submission outcomes.",
	}, []string{"result"})

	// GatewayAttempts counts per-mirror fetch attempts at read time.
	GatewayAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ctsync",
		Name:      "gateway_attempts_total",
		Help:      "Content gateway fetch attempts by outcome.",
	}, []string{"gateway", "outcome"})

	// AssessFallbacks counts urgency assessments that degraded to the
	// neutral fallback.
	AssessFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ctsync",
		Name:      "assess_fallbacks_total",
		Help:      "Urgency assessments served from the fallback value.",
	})
)
