package visa

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/bizvisa/internal/logging"
	"github.com/JonMunkholm/bizvisa/internal/metrics"
)

// TableLoader is what Service needs from a Loader.
type TableLoader interface {
	Load(ctx context.Context) (*Table, error)
}

// Service is the entry point for the web layer.
type Service struct {
	loader  TableLoader
	metrics *metrics.Metrics
}

// NewService creates a Service. m may be nil.
func NewService(loader TableLoader, m *metrics.Metrics) *Service {
	return &Service{loader: loader, metrics: m}
}

// Lookup validates q, loads the reference table and matches q against it.
func (s *Service) Lookup(ctx context.Context, q Query) (Result, error) {
	logger := logging.FromContext(ctx)

	if err := q.Validate(); err != nil {
		s.metrics.IncrementLookup(metrics.OutcomeIncomplete)
		logger.Debug("lookup rejected", "error", err)
		return Result{}, err
	}

	t, err := s.loader.Load(ctx)
	if err != nil {
		if IsUnavailable(err) {
			s.metrics.IncrementLookup(metrics.OutcomeUnavailable)
		} else {
			s.metrics.IncrementLookup(metrics.OutcomeError)
		}
		return Result{}, err
	}

	res, err := Match(t, q)
	switch {
	case errors.Is(err, ErrNoMatch):
		s.metrics.IncrementLookup(metrics.OutcomeNoMatch)
		logger.Info("lookup found no match",
			"nationality", q.Nationality,
			"destination", q.DestinationCountry,
		)
		return Result{}, err
	case err != nil:
		s.metrics.IncrementLookup(metrics.OutcomeError)
		return Result{}, err
	}

	s.metrics.IncrementLookup(string(res.Tier))
	logger.Info("lookup matched",
		"tier", res.Tier,
		"row", res.Row,
		"visa_type", res.VisaType,
	)
	return res, nil
}

// Options returns the dropdown values of the reference table.
func (s *Service) Options(ctx context.Context) (Options, error) {
	t, err := s.loader.Load(ctx)
	if err != nil {
		return Options{}, err
	}
	return OptionsFor(t), nil
}

// DatasetInfo describes the cached reference table.
type DatasetInfo struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Dataset returns metadata about the reference table.
func (s *Service) Dataset(ctx context.Context) (DatasetInfo, error) {
	t, err := s.loader.Load(ctx)
	if err != nil {
		return DatasetInfo{}, err
	}
	return DatasetInfo{
		ID:       t.ID().String(),
		Source:   t.Source(),
		Rows:     t.Len(),
		LoadedAt: t.LoadedAt(),
	}, nil
}
