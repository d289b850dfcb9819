package visa

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/JonMunkholm/bizvisa/internal/logging"
	"github.com/JonMunkholm/bizvisa/internal/metrics"
)

// Loader loads the reference table once and caches it for the lifetime of
// the process. Only successful loads are cached: after a failure the next
// call reads the source again, so a re-provisioned file is picked up
// without a restart.
type Loader struct {
	source  Source
	metrics *metrics.Metrics

	mu    sync.Mutex
	table *Table
}

// NewLoader creates a Loader for src. m may be nil.
func NewLoader(src Source, m *metrics.Metrics) *Loader {
	return &Loader{source: src, metrics: m}
}

// Load returns the cached table, reading the source on first use.
func (l *Loader) Load(ctx context.Context) (*Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.table != nil {
		return l.table, nil
	}

	logger := logging.WithFields(ctx, "source", l.source.Name())

	start := time.Now()
	t, err := l.source.Load(ctx)
	elapsed := time.Since(start)

	if err != nil {
		l.metrics.ObserveLoad(loadResult(err), elapsed, 0)
		logger.Error("reference table load failed",
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)
		return nil, err
	}

	l.metrics.ObserveLoad("ok", elapsed, t.Len())
	logger.Info("reference table loaded",
		"dataset_id", t.ID().String(),
		"path", t.Source(),
		"rows", t.Len(),
		"duration_ms", elapsed.Milliseconds(),
	)

	l.table = t
	return t, nil
}

// Cached returns the cached table without touching the source, or nil.
func (l *Loader) Cached() *Table {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.table
}

func loadResult(err error) string {
	switch {
	case errors.Is(err, ErrSourceNotFound):
		return "not_found"
	case errors.Is(err, ErrSourceUnreadable):
		return "unreadable"
	default:
		return "error"
	}
}
