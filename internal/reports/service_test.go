package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/taller-erp/taller-erp/internal/orders"
)

type stubRepo struct {
	list  []orders.Order
	err   error
	calls int
}

func (s *stubRepo) ListOrderSnapshots(context.Context) ([]orders.Order, error) {
	s.calls++
	return s.list, s.err
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func sampleOrders() []orders.Order {
	o := orders.Order{
		OrderNumber: "ORD-0001",
		Status:      orders.StatusPending,
		Client:      orders.ClientRef{Name: "Cliente"},
		Appliances:  []orders.ApplianceLine{{Falla: "no enciende"}},
		TechnicianAssignments: []orders.TechnicianAssignment{{
			IsActive:   true,
			Technician: orders.TechnicianRef{ID: 1, Name: "Ana"},
		}},
	}
	return []orders.Order{o}
}

func TestServiceCachesReports(t *testing.T) {
	repo := &stubRepo{list: sampleOrders()}
	svc := NewService(repo, newTestCache(t))

	ctx := context.Background()
	first, err := svc.ServicesByTechnician(ctx)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.ServicesByTechnician(ctx)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected one repository load, got %d", repo.calls)
	}
	if len(first) != 1 || len(second) != 1 || first[0].Name != second[0].Name {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestServiceInvalidateForcesRecompute(t *testing.T) {
	repo := &stubRepo{list: sampleOrders()}
	svc := NewService(repo, newTestCache(t))

	ctx := context.Background()
	if _, err := svc.ServicesByTechnician(ctx); err != nil {
		t.Fatalf("warm up: %v", err)
	}
	if err := svc.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := svc.ServicesByTechnician(ctx); err != nil {
		t.Fatalf("after invalidate: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected recompute after invalidation, got %d loads", repo.calls)
	}
}

func TestServiceNoDataPassesThrough(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, newTestCache(t))

	ctx := context.Background()
	if _, err := svc.ServicesByTechnician(ctx); !IsNoData(err) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := svc.WarrantyByTechnician(ctx); !IsNoData(err) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := svc.ByStatus(ctx); !IsNoData(err) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestServiceWorksWithoutRedis(t *testing.T) {
	repo := &stubRepo{list: sampleOrders()}
	svc := NewService(repo, nil)

	result, err := svc.ServicesByTechnician(context.Background())
	if err != nil {
		t.Fatalf("pass-through call: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected one bucket, got %d", len(result))
	}
}

func TestServiceRepositoryErrorsPropagate(t *testing.T) {
	repoErr := errors.New("boom")
	repo := &stubRepo{err: repoErr}
	svc := NewService(repo, newTestCache(t))

	if _, err := svc.ServicesByTechnician(context.Background()); !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestServiceWarrantyUsesClock(t *testing.T) {
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	o := sampleOrders()[0]
	o.GarantiaEndDate = &end
	repo := &stubRepo{list: []orders.Order{o}}

	svc := NewService(repo, nil)
	svc.SetClock(func() time.Time { return end.AddDate(0, 0, -1) })
	if _, err := svc.WarrantyByTechnician(context.Background()); err != nil {
		t.Fatalf("expected coverage before the end date: %v", err)
	}

	svc.SetClock(func() time.Time { return end.AddDate(0, 0, 1) })
	if _, err := svc.WarrantyByTechnician(context.Background()); !IsNoData(err) {
		t.Fatalf("expected ErrNoData after expiry, got %v", err)
	}
}
