package payments

import (
	"context"
	"testing"
	"time"

	"github.com/taller-erp/taller-erp/internal/orders"
)

type mockRepo struct {
	registered []Payment
}

func (m *mockRepo) Register(_ context.Context, p Payment) (int64, error) {
	m.registered = append(m.registered, p)
	return int64(len(m.registered)), nil
}

func (m *mockRepo) ListByOrder(context.Context, int64) ([]Payment, error) {
	return m.registered, nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

func TestRegisterGeneratesReceiptAndInvalidates(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	inv := &countingInvalidator{}
	svc.SetReportInvalidator(inv)

	paidAt := time.Date(2025, 5, 10, 10, 0, 0, 0, time.UTC)
	p, err := svc.Register(context.Background(), RegisterPaymentRequest{
		OrderID: 1,
		Amount:  150,
		Method:  MethodEfectivo,
		PaidAt:  paidAt,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.ID != 1 || p.ReceiptNumber == "" {
		t.Fatalf("unexpected payment: %+v", p)
	}
	if !p.PaidAt.Equal(paidAt) {
		t.Fatalf("expected supplied paid_at preserved, got %v", p.PaidAt)
	}
	if inv.calls != 1 {
		t.Fatalf("expected one cache invalidation, got %d", inv.calls)
	}
}

func TestRegisterRejectsNonPositiveAmount(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterPaymentRequest{OrderID: 1, Amount: 0, Method: MethodTarjeta}); err == nil {
		t.Fatal("expected rejection of zero amount")
	}
	if len(repo.registered) != 0 {
		t.Fatal("repository touched despite rejected amount")
	}
}

func TestRegisterDefaultsPaidAt(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	p, err := svc.Register(context.Background(), RegisterPaymentRequest{OrderID: 1, Amount: 50, Method: MethodTransferencia})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.PaidAt.IsZero() {
		t.Fatal("expected paid_at defaulted to now")
	}
}

func TestDerivePaymentStatus(t *testing.T) {
	cases := []struct {
		name        string
		total, paid float64
		want        orders.PaymentStatus
	}{
		{"below total", 100, 40, orders.PaymentPartial},
		{"exactly total", 100, 100, orders.PaymentPaid},
		{"over total", 100, 120, orders.PaymentPaid},
		{"zero total never pays off", 0, 50, orders.PaymentPartial},
	}
	for _, tc := range cases {
		if got := derivePaymentStatus(tc.total, tc.paid); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
