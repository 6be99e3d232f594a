// Package metrics exposes the Prometheus instrumentation for the service
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sourceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoup_source_fetches_total",
			Help: "Total upstream source fetches, by source and result",
		},
		[]string{"source", "result"},
	)

	fxResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoup_fx_resolutions_total",
			Help: "Total BRL conversion rate resolutions, by winning source",
		},
		[]string{"source"},
	)

	simulations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cryptoup_simulations_total",
			Help: "Total arbitrage simulations run",
		},
	)
)

// RecordFetch records a single upstream fetch outcome
func RecordFetch(source string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}

	sourceFetches.WithLabelValues(source, result).Inc()
}

// RecordFXResolution records the source that won the conversion
// fallback chain. An exhausted chain is recorded as "none"
func RecordFXResolution(source string) {
	fxResolutions.WithLabelValues(source).Inc()
}

// RecordSimulation records a completed arbitrage simulation
func RecordSimulation() {
	simulations.Inc()
}

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
