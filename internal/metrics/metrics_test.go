package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveLoad("ok", time.Second, 10)
	m.IncrementLookup(OutcomeExact)
}

func TestObserveLoad(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveLoad("ok", 20*time.Millisecond, 42)
	m.ObserveLoad("not_found", time.Millisecond, 0)

	if got := testutil.ToFloat64(m.Loads.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok loads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Loads.WithLabelValues("not_found")); got != 1 {
		t.Errorf("not_found loads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.TableRows); got != 42 {
		t.Errorf("rows = %v, want 42 (failed load must not reset it)", got)
	}
	if n := testutil.CollectAndCount(m.LoadDuration); n != 1 {
		t.Errorf("duration collectors = %d, want 1", n)
	}
}

func TestIncrementLookup(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementLookup(OutcomeExact)
	m.IncrementLookup(OutcomeExact)
	m.IncrementLookup(OutcomeNoMatch)

	if got := testutil.ToFloat64(m.Lookups.WithLabelValues(OutcomeExact)); got != 2 {
		t.Errorf("exact = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Lookups.WithLabelValues(OutcomeNoMatch)); got != 1 {
		t.Errorf("no_match = %v, want 1", got)
	}
}

func TestNewRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.IncrementLookup(OutcomeFallback)

	n, err := testutil.GatherAndCount(reg, "bizvisa_lookups_total")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n != 1 {
		t.Errorf("bizvisa_lookups_total series = %d, want 1", n)
	}

	// a second registry accepts the same collectors
	_ = New(prometheus.NewRegistry())
}
