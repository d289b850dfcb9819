package visa

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JonMunkholm/bizvisa/internal/metrics"
)

// countingSource returns a fixed table or error and counts reads.
type countingSource struct {
	mu    sync.Mutex
	calls int
	table *Table
	err   error
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Load(ctx context.Context) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

func (s *countingSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *countingSource) set(t *Table, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table, s.err = t, err
}

func TestLoader_MemoizesSuccess(t *testing.T) {
	src := &countingSource{table: sampleTable()}
	l := NewLoader(src, nil)

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if first != second {
		t.Error("repeated loads should return the same table")
	}
	if first.ID() != second.ID() {
		t.Error("dataset id should be stable across loads")
	}
	if src.Calls() != 1 {
		t.Errorf("source read %d times, want 1", src.Calls())
	}
	if l.Cached() != first {
		t.Error("Cached() should return the loaded table")
	}
}

func TestLoader_FailureNotMemoized(t *testing.T) {
	notFound := &SourceError{Op: "locate", Err: ErrSourceNotFound}
	src := &countingSource{err: notFound}
	l := NewLoader(src, nil)

	if _, err := l.Load(context.Background()); !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("Load() error = %v, want ErrSourceNotFound", err)
	}
	if l.Cached() != nil {
		t.Error("failed load should not be cached")
	}

	src.set(sampleTable(), nil)

	table, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() after re-provisioning error = %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
	if src.Calls() != 2 {
		t.Errorf("source read %d times, want 2", src.Calls())
	}
}

func TestLoader_ConcurrentFirstUse(t *testing.T) {
	src := &countingSource{table: sampleTable()}
	l := NewLoader(src, nil)

	const n = 16
	var wg sync.WaitGroup
	tables := make([]*Table, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i], _ = l.Load(context.Background())
		}(i)
	}
	wg.Wait()

	if src.Calls() != 1 {
		t.Errorf("source read %d times, want 1", src.Calls())
	}
	for i := 1; i < n; i++ {
		if tables[i] != tables[0] {
			t.Fatalf("goroutine %d got a different table", i)
		}
	}
}

func TestLoader_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	src := &countingSource{err: unreadable("decode", "visas.xlsx", errors.New("bad header"))}
	l := NewLoader(src, m)

	_, _ = l.Load(context.Background())
	src.set(sampleTable(), nil)
	_, _ = l.Load(context.Background())
	_, _ = l.Load(context.Background())

	if got := testutil.ToFloat64(m.Loads.WithLabelValues("unreadable")); got != 1 {
		t.Errorf("unreadable loads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Loads.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok loads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.TableRows); got != 3 {
		t.Errorf("table rows = %v, want 3", got)
	}
}

func TestLoadResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&SourceError{Op: "locate", Err: ErrSourceNotFound}, "not_found"},
		{unreadable("open", "x.xlsx", errors.New("zip")), "unreadable"},
		{context.Canceled, "error"},
	}
	for _, tt := range tests {
		if got := loadResult(tt.err); got != tt.want {
			t.Errorf("loadResult(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
