package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for payments.
type RepositoryPort interface {
	Register(ctx context.Context, p Payment) (int64, error)
	ListByOrder(ctx context.Context, orderID int64) ([]Payment, error)
}

// ReportInvalidator drops cached reports after payment mutations.
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service handles payment business logic.
type Service struct {
	repo    RepositoryPort
	reports ReportInvalidator
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// SetReportInvalidator wires cache invalidation for report consumers.
func (s *Service) SetReportInvalidator(inv ReportInvalidator) {
	s.reports = inv
}

// Register records a payment against an order. The receipt number is a
// generated UUID.
func (s *Service) Register(ctx context.Context, req RegisterPaymentRequest) (*Payment, error) {
	if req.Amount <= 0 {
		return nil, errors.New("payments: amount must be positive")
	}
	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	p := Payment{
		OrderID:       req.OrderID,
		ReceiptNumber: uuid.NewString(),
		Amount:        req.Amount,
		Method:        req.Method,
		PaidAt:        paidAt,
	}
	id, err := s.repo.Register(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if s.reports != nil {
		_ = s.reports.Invalidate(ctx)
	}
	return &p, nil
}

// ListByOrder returns every payment for an order.
func (s *Service) ListByOrder(ctx context.Context, orderID int64) ([]Payment, error) {
	return s.repo.ListByOrder(ctx, orderID)
}
