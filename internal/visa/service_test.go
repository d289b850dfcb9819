package visa

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JonMunkholm/bizvisa/internal/metrics"
)

func newTestService(t *testing.T, src Source) (*Service, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	return NewService(NewLoader(src, m), m), m
}

func TestService_Lookup(t *testing.T) {
	tests := []struct {
		name        string
		source      Source
		query       Query
		wantErr     error
		wantTier    Tier
		wantOutcome string
	}{
		{
			name:        "exact",
			source:      &countingSource{table: sampleTable()},
			query:       Query{"French", "France", "USA", "short", "business"},
			wantTier:    TierExact,
			wantOutcome: metrics.OutcomeExact,
		},
		{
			name:        "fallback",
			source:      &countingSource{table: sampleTable()},
			query:       Query{"French", "Belgium", "Japan", "long", "business"},
			wantTier:    TierFallback,
			wantOutcome: metrics.OutcomeFallback,
		},
		{
			name:        "no match",
			source:      &countingSource{table: sampleTable()},
			query:       Query{"Italian", "Italy", "Brazil", "short", "business"},
			wantErr:     ErrNoMatch,
			wantOutcome: metrics.OutcomeNoMatch,
		},
		{
			name:        "incomplete",
			source:      &countingSource{table: sampleTable()},
			query:       Query{"French", Placeholder, "USA", "short", "business"},
			wantErr:     ErrIncompleteQuery,
			wantOutcome: metrics.OutcomeIncomplete,
		},
		{
			name:        "source missing",
			source:      &countingSource{err: &SourceError{Op: "locate", Err: ErrSourceNotFound}},
			query:       Query{"French", "France", "USA", "short", "business"},
			wantErr:     ErrSourceNotFound,
			wantOutcome: metrics.OutcomeUnavailable,
		},
		{
			name:        "cancelled",
			source:      &countingSource{err: context.Canceled},
			query:       Query{"French", "France", "USA", "short", "business"},
			wantErr:     context.Canceled,
			wantOutcome: metrics.OutcomeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t, tt.source)

			res, err := svc.Lookup(context.Background(), tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Lookup() error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("Lookup() error = %v", err)
				}
				if res.Tier != tt.wantTier {
					t.Errorf("Tier = %q, want %q", res.Tier, tt.wantTier)
				}
			}

			if got := testutil.ToFloat64(m.Lookups.WithLabelValues(tt.wantOutcome)); got != 1 {
				t.Errorf("lookups{outcome=%q} = %v, want 1", tt.wantOutcome, got)
			}
		})
	}
}

func TestService_IncompleteQuerySkipsSource(t *testing.T) {
	src := &countingSource{table: sampleTable()}
	svc, _ := newTestService(t, src)

	if _, err := svc.Lookup(context.Background(), Query{}); !errors.Is(err, ErrIncompleteQuery) {
		t.Fatalf("Lookup() error = %v, want ErrIncompleteQuery", err)
	}
	if src.Calls() != 0 {
		t.Errorf("source read %d times, want 0", src.Calls())
	}
}

func TestService_LookupIsIdempotent(t *testing.T) {
	src := &countingSource{table: sampleTable()}
	svc, _ := newTestService(t, src)
	q := Query{"German", "Germany", "USA", "long", "business"}

	first, err := svc.Lookup(context.Background(), q)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := svc.Lookup(context.Background(), q)
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if got != first {
			t.Errorf("lookup %d = %+v, want %+v", i, got, first)
		}
	}
	if src.Calls() != 1 {
		t.Errorf("source read %d times, want 1", src.Calls())
	}
}

func TestService_Options(t *testing.T) {
	svc, _ := newTestService(t, &countingSource{table: sampleTable()})

	opts, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if len(opts.Nationalities) != 2 || opts.Nationalities[0] != "French" {
		t.Errorf("Nationalities = %v", opts.Nationalities)
	}

	svc, _ = newTestService(t, &countingSource{err: &SourceError{Op: "locate", Err: ErrSourceNotFound}})
	if _, err := svc.Options(context.Background()); !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Options() error = %v, want ErrSourceNotFound", err)
	}
}

func TestService_Dataset(t *testing.T) {
	table := sampleTable()
	svc, _ := newTestService(t, &countingSource{table: table})

	info, err := svc.Dataset(context.Background())
	if err != nil {
		t.Fatalf("Dataset() error = %v", err)
	}
	if info.ID != table.ID().String() {
		t.Errorf("ID = %q, want %q", info.ID, table.ID())
	}
	if info.Rows != 3 || info.Source != "test" {
		t.Errorf("Dataset() = %+v", info)
	}
}
