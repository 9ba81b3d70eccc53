package orders

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockRepo struct {
	orders      map[int64]*Order
	created     []CreateOrderInput
	statusCalls []Status
	assigned    []int64
	unassigned  []int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{orders: make(map[int64]*Order)}
}

func (m *mockRepo) Get(_ context.Context, id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockRepo) List(context.Context, ListOrdersRequest) ([]Order, int, error) {
	return nil, 0, nil
}

func (m *mockRepo) GenerateNumber(_ context.Context, date time.Time) (string, error) {
	return "ORD-" + date.Format("200601") + "-0001", nil
}

func (m *mockRepo) Create(_ context.Context, input CreateOrderInput) (int64, error) {
	m.created = append(m.created, input)
	id := int64(len(m.created))
	m.orders[id] = &Order{ID: id, OrderNumber: input.OrderNumber, Status: input.Status}
	return id, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, status Status, _ *string, _ int64) error {
	m.statusCalls = append(m.statusCalls, status)
	if o, ok := m.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (m *mockRepo) AssignTechnician(_ context.Context, orderID, technicianID int64) error {
	m.assigned = append(m.assigned, technicianID)
	return nil
}

func (m *mockRepo) UnassignTechnician(_ context.Context, orderID, technicianID int64) error {
	m.unassigned = append(m.unassigned, technicianID)
	return nil
}

func (m *mockRepo) ApplyWarranty(_ context.Context, id int64, req ApplyWarrantyRequest, _ int64) error {
	if o, ok := m.orders[id]; ok {
		o.Status = StatusGarantiaAplicada
		o.GarantiaIlimitada = req.Ilimitada
		o.GarantiaEndDate = req.EndDate
		o.GarantiaPrioridad = req.Prioridad
	}
	return nil
}

func (m *mockRepo) SetSolution(context.Context, int64, int64, string) error { return nil }

func (m *mockRepo) StatusHistory(context.Context, int64) ([]StatusHistoryEntry, error) {
	return nil, nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

func makeRequest() CreateOrderRequest {
	return CreateOrderRequest{
		ClientID:     1,
		ReceivedDate: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		Appliances:   []CreateApplianceLineReq{{ClientApplianceID: 3, Falla: "no enfría"}},
	}
}

func TestCreateAssignsGeneratedNumberAndPendingStatus(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	order, err := svc.Create(context.Background(), makeRequest(), 9)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.OrderNumber != "ORD-202505-0001" {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}
	if order.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", order.Status)
	}
	if len(repo.created) != 1 || len(repo.created[0].Appliances) != 1 {
		t.Fatalf("unexpected create input: %+v", repo.created)
	}
}

func TestCreatePreorder(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	req := makeRequest()
	req.Preorder = true
	order, err := svc.Create(context.Background(), req, 9)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.Status != StatusPreorder {
		t.Fatalf("expected PREORDER, got %s", order.Status)
	}
}

func TestCreateRequiresApplianceLines(t *testing.T) {
	svc := NewService(newMockRepo())
	req := makeRequest()
	req.Appliances = nil
	if _, err := svc.Create(context.Background(), req, 9); err == nil {
		t.Fatal("expected rejection without appliance lines")
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	err := svc.UpdateStatus(context.Background(), 1, UpdateStatusRequest{Status: Status("EN_REVISION")}, 9)
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
	if len(repo.statusCalls) != 0 {
		t.Fatal("repository touched despite rejected status")
	}
}

func TestAssignTechnicianMovesPendingToAssigned(t *testing.T) {
	repo := newMockRepo()
	repo.orders[1] = &Order{ID: 1, Status: StatusPending}
	svc := NewService(repo)
	inv := &countingInvalidator{}
	svc.SetReportInvalidator(inv)

	if err := svc.AssignTechnician(context.Background(), 1, AssignTechnicianRequest{TechnicianID: 4}, 9); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(repo.assigned) != 1 || repo.assigned[0] != 4 {
		t.Fatalf("unexpected assignment calls: %v", repo.assigned)
	}
	if len(repo.statusCalls) != 1 || repo.statusCalls[0] != StatusAssigned {
		t.Fatalf("expected transition to ASSIGNED, got %v", repo.statusCalls)
	}
	if inv.calls != 1 {
		t.Fatalf("expected one cache invalidation, got %d", inv.calls)
	}
}

func TestAssignTechnicianKeepsNonPendingStatus(t *testing.T) {
	repo := newMockRepo()
	repo.orders[1] = &Order{ID: 1, Status: StatusReparando}
	svc := NewService(repo)

	if err := svc.AssignTechnician(context.Background(), 1, AssignTechnicianRequest{TechnicianID: 4}, 9); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(repo.statusCalls) != 0 {
		t.Fatalf("status should not change for %s, got %v", StatusReparando, repo.statusCalls)
	}
}

func TestApplyWarrantyValidation(t *testing.T) {
	repo := newMockRepo()
	repo.orders[1] = &Order{ID: 1, Status: StatusDelivered}
	svc := NewService(repo)

	err := svc.ApplyWarranty(context.Background(), 1, ApplyWarrantyRequest{Prioridad: PriorityMedia, Razon: "falla recurrente"}, 9)
	if err == nil {
		t.Fatal("expected rejection without end date or unlimited flag")
	}

	if err := svc.ApplyWarranty(context.Background(), 1, ApplyWarrantyRequest{
		Ilimitada: true,
		Prioridad: PriorityMedia,
		Razon:     "falla recurrente",
	}, 9); err != nil {
		t.Fatalf("apply warranty: %v", err)
	}
	if repo.orders[1].Status != StatusGarantiaAplicada {
		t.Fatalf("expected GARANTIA_APLICADA, got %s", repo.orders[1].Status)
	}
}

func TestMutationsInvalidateReports(t *testing.T) {
	repo := newMockRepo()
	repo.orders[1] = &Order{ID: 1, Status: StatusPending}
	svc := NewService(repo)
	inv := &countingInvalidator{}
	svc.SetReportInvalidator(inv)

	if _, err := svc.Create(context.Background(), makeRequest(), 9); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), 1, UpdateStatusRequest{Status: StatusCompleted}, 9); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := svc.UnassignTechnician(context.Background(), 1, 4); err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if inv.calls != 3 {
		t.Fatalf("expected 3 invalidations, got %d", inv.calls)
	}
}
