package reports

import (
	"context"
	"errors"
	"time"

	"github.com/taller-erp/taller-erp/internal/orders"
)

// Repository provides the order snapshots the aggregators consume.
type Repository interface {
	ListOrderSnapshots(ctx context.Context) ([]orders.Order, error)
}

// Service coordinates report computation with the cache layer. The
// aggregators themselves are pure; cached results are keyed by a global
// version bumped on every order mutation.
type Service struct {
	repo  Repository
	cache *Cache
	now   func() time.Time
}

// NewService wires a Repository with a Cache helper.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// SetClock overrides the time source, for tests.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Invalidate drops every cached report. Call after order mutations.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// WarrantyByTechnician returns the cached or freshly computed warranty
// report. ErrNoData passes through uncached.
func (s *Service) WarrantyByTechnician(ctx context.Context) ([]TechnicianWarranty, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "warranty")
	if err != nil {
		return nil, err
	}
	var result []TechnicianWarranty
	err = s.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		list, err := s.repo.ListOrderSnapshots(ctx)
		if err != nil {
			return nil, err
		}
		return WarrantyByTechnician(list, s.now())
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrNoData
	}
	return result, nil
}

// ServicesByTechnician returns the cached or freshly computed services
// report.
func (s *Service) ServicesByTechnician(ctx context.Context) ([]TechnicianServices, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "services")
	if err != nil {
		return nil, err
	}
	var result []TechnicianServices
	err = s.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		list, err := s.repo.ListOrderSnapshots(ctx)
		if err != nil {
			return nil, err
		}
		return ServicesByTechnician(list)
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrNoData
	}
	return result, nil
}

// ByStatus returns the cached or freshly computed status report.
func (s *Service) ByStatus(ctx context.Context) (*StatusReport, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "by_status")
	if err != nil {
		return nil, err
	}
	var result StatusReport
	err = s.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		list, err := s.repo.ListOrderSnapshots(ctx)
		if err != nil {
			return nil, err
		}
		report, err := ByStatusThenTechnician(list)
		if err != nil {
			return nil, err
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	if result.TotalServices == 0 {
		return nil, ErrNoData
	}
	return &result, nil
}

// Financials computes money totals over the current order collection.
func (s *Service) Financials(ctx context.Context) (Financials, error) {
	list, err := s.repo.ListOrderSnapshots(ctx)
	if err != nil {
		return Financials{}, err
	}
	return ComputeFinancials(list), nil
}

// IsNoData reports whether the error is the empty-report sentinel.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}
