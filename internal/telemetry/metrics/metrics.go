// Package metrics is a trimmed Prometheus metrics provider covering the
// counters, gauge, and histogram recorded by the executor and by the
// root package's run around source selection.
// Adapted from the engine's telemetry metrics provider, dropping its
// dynamic per-name registry and cardinality tracking — this module's
// metric set is small and fixed, so the provider just wires the
// concrete instruments it needs at construction time.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider exposes the fixed instrument set for one run of the system.
type Provider struct {
	registry *prometheus.Registry

	SourcesSelected *prometheus.CounterVec
	SourcesSkipped  *prometheus.CounterVec
	SourceErrors    *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	ExecutorInflight prometheus.Gauge
}

// New constructs a Provider backed by a private registry.
func New() *Provider {
	reg := prometheus.NewRegistry()

	p := &Provider{
		registry: reg,
		SourcesSelected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "temperature_sources_selected_total",
			Help: "count of sources selected for execution",
		}, []string{"source"}),
		SourcesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "temperature_sources_skipped_total",
			Help: "count of sources skipped during selection",
		}, []string{"reason"}),
		SourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "temperature_sources_errors_total",
			Help: "count of source execution errors by classification",
		}, []string{"error_type"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "temperature_source_fetch_duration_seconds",
			Help:    "per-source fetch latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		ExecutorInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "temperature_executor_inflight",
			Help: "number of source fetches currently in flight",
		}),
	}

	reg.MustRegister(p.SourcesSelected, p.SourcesSkipped, p.SourceErrors, p.FetchDuration, p.ExecutorInflight)
	return p
}

// Handler exposes the Prometheus scrape endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
