// Package metrics exposes prometheus instrumentation for the preprocessing
// pipeline: lookup outcomes, cache hits, timeouts, processed and dropped
// text counts, and per-text processing duration.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector registered for one pipeline instance.  It
// satisfies the resolver's telemetry contract.
type Metrics struct {
	registry *prometheus.Registry

	LookupsTotal        *prometheus.CounterVec
	LookupTimeoutsTotal prometheus.Counter
	TextsProcessed      prometheus.Counter
	TextsDropped        prometheus.Counter
	EntitiesResolved    prometheus.Counter
	TextDuration        prometheus.Histogram
}

// New registers all pipeline collectors on a fresh registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		LookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_lookups_total",
			Help:      "Entity resolution lookups by cache outcome.",
		}, []string{"cache"}),
		LookupTimeoutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_lookup_timeouts_total",
			Help:      "External lookups that exhausted all retry attempts.",
		}),
		TextsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "texts_processed_total",
			Help:      "Texts that completed normalization.",
		}),
		TextsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "texts_dropped_total",
			Help:      "Texts dropped during cleaning or normalization.",
		}),
		EntitiesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_resolved_total",
			Help:      "Entity mentions resolved to a canonical record.",
		}),
		TextDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "text_processing_duration_seconds",
			Help:      "Wall time spent normalizing one text.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 120},
		}),
	}
	reg.MustRegister(
		m.LookupsTotal,
		m.LookupTimeoutsTotal,
		m.TextsProcessed,
		m.TextsDropped,
		m.EntitiesResolved,
		m.TextDuration,
	)
	return m
}

// RecordLookup counts one resolution lookup by cache outcome.
func (m *Metrics) RecordLookup(cacheHit bool) {
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	m.LookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordLookupTimeout counts one lookup that timed out after all attempts.
func (m *Metrics) RecordLookupTimeout() {
	m.LookupTimeoutsTotal.Inc()
}

// TextProcessed counts one completed text and observes its duration.
func (m *Metrics) TextProcessed(d time.Duration) {
	m.TextsProcessed.Inc()
	m.TextDuration.Observe(d.Seconds())
}

// TextDropped counts one text removed during cleaning or normalization.
func (m *Metrics) TextDropped() {
	m.TextsDropped.Inc()
}

// EntityResolved counts one resolved mention.
func (m *Metrics) EntityResolved() {
	m.EntitiesResolved.Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
