// Package metrics provides Prometheus collectors for the visa lookup.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes.
const (
	OutcomeExact       = "exact"
	OutcomeFallback    = "fallback"
	OutcomeNoMatch     = "no_match"
	OutcomeIncomplete  = "incomplete"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Reference table loads by result: "ok", "not_found", "unreadable", "error"
	Loads *prometheus.CounterVec

	LoadDuration prometheus.Histogram

	// Rows in the currently cached reference table
	TableRows prometheus.Gauge

	// Lookups by outcome
	Lookups *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bizvisa_reference_loads_total",
			Help: "Reference table load attempts by result",
		}, []string{"result"}),

		LoadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bizvisa_reference_load_duration_seconds",
			Help:    "Duration of reference table loads",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		TableRows: f.NewGauge(prometheus.GaugeOpts{
			Name: "bizvisa_reference_rows",
			Help: "Number of rules in the cached reference table",
		}),

		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bizvisa_lookups_total",
			Help: "Visa lookups by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveLoad records one load attempt.
func (m *Metrics) ObserveLoad(result string, d time.Duration, rows int) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(result).Inc()
	m.LoadDuration.Observe(d.Seconds())
	if result == "ok" {
		m.TableRows.Set(float64(rows))
	}
}

// IncrementLookup records a lookup outcome.
func (m *Metrics) IncrementLookup(outcome string) {
	if m != nil {
		m.Lookups.WithLabelValues(outcome).Inc()
	}
}
