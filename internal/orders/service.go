package orders

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RepositoryPort defines the data access surface the service depends on.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error)
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
	Create(ctx context.Context, input CreateOrderInput) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status Status, note *string, changedBy int64) error
	AssignTechnician(ctx context.Context, orderID, technicianID int64) error
	UnassignTechnician(ctx context.Context, orderID, technicianID int64) error
	ApplyWarranty(ctx context.Context, id int64, req ApplyWarrantyRequest, changedBy int64) error
	SetSolution(ctx context.Context, orderID, lineID int64, solucion string) error
	StatusHistory(ctx context.Context, orderID int64) ([]StatusHistoryEntry, error)
}

// ReportInvalidator drops cached reports after order mutations.
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ErrUnknownStatus rejects writes with a status outside the closed set. The
// reporting side stays fail-open for historical rows; the write side does not.
var ErrUnknownStatus = errors.New("orders: unknown status")

// Service handles service order business logic.
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

func (s *Service) invalidateReports(ctx context.Context) {
	if s.reports != nil {
		_ = s.reports.Invalidate(ctx)
	}
}

// Create registers a new service order. The order row, first status-history
// entry and appliance lines are persisted as one transactional unit.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, createdBy int64) (*Order, error) {
	if len(req.Appliances) == 0 {
		return nil, errors.New("orders: at least one appliance line required")
	}

	status := StatusPending
	if req.Preorder {
		status = StatusPreorder
	}

	number, err := s.repo.GenerateNumber(ctx, req.ReceivedDate)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, CreateOrderInput{
		OrderNumber:  number,
		ClientID:     req.ClientID,
		Status:       status,
		ReceivedDate: req.ReceivedDate,
		Presupuesto:  req.Presupuesto,
		Notes:        req.Notes,
		CreatedBy:    createdBy,
		Appliances:   req.Appliances,
	})
	if err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return s.repo.Get(ctx, id)
}

// Get loads one order aggregate.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns a filtered order page.
func (s *Service) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	return s.repo.List(ctx, req)
}

// History returns the order's status trail.
func (s *Service) History(ctx context.Context, orderID int64) ([]StatusHistoryEntry, error) {
	return s.repo.StatusHistory(ctx, orderID)
}

// UpdateStatus appends a status change. The new status must belong to the
// closed registry set.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest, changedBy int64) error {
	if !req.Status.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, req.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.Note, changedBy); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// AssignTechnician makes a technician currently responsible for the order
// and moves a PENDING order to ASSIGNED.
func (s *Service) AssignTechnician(ctx context.Context, orderID int64, req AssignTechnicianRequest, changedBy int64) error {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.repo.AssignTechnician(ctx, orderID, req.TechnicianID); err != nil {
		return err
	}
	if order.Status == StatusPending {
		if err := s.repo.UpdateStatus(ctx, orderID, StatusAssigned, nil, changedBy); err != nil {
			return err
		}
	}
	s.invalidateReports(ctx)
	return nil
}

// UnassignTechnician removes a technician from current responsibility. The
// assignment row survives as history.
func (s *Service) UnassignTechnician(ctx context.Context, orderID, technicianID int64) error {
	if err := s.repo.UnassignTechnician(ctx, orderID, technicianID); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// ApplyWarranty re-opens the order under warranty. Either an end date or
// the unlimited flag must be given.
func (s *Service) ApplyWarranty(ctx context.Context, orderID int64, req ApplyWarrantyRequest, changedBy int64) error {
	if !req.Ilimitada && req.EndDate == nil {
		return errors.New("orders: warranty needs an end date or the unlimited flag")
	}
	if err := s.repo.ApplyWarranty(ctx, orderID, req, changedBy); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// SetSolution records the solution text on an appliance line.
func (s *Service) SetSolution(ctx context.Context, orderID int64, req SetSolutionRequest) error {
	return s.repo.SetSolution(ctx, orderID, req.LineID, req.Solucion)
}
