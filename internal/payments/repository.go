package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taller-erp/taller-erp/internal/orders"
	"github.com/taller-erp/taller-erp/internal/platform/db"
)

// ErrOrderNotFound indicates the referenced order does not exist.
var ErrOrderNotFound = errors.New("payments: order not found")

// Repository provides PostgreSQL backed persistence for payments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Register inserts the payment and recomputes the order's paid amount and
// payment status in one transaction. The derived status is PARTIAL while
// the paid total stays below the order total and PAID once it reaches it.
func (r *Repository) Register(ctx context.Context, p Payment) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var total, paid float64
		err := tx.QueryRow(ctx, `SELECT COALESCE(total_amount, 0), COALESCE(paid_amount, 0)
FROM service_orders WHERE id = $1 FOR UPDATE`, p.OrderID).Scan(&total, &paid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("payments: lock order: %w", err)
		}

		if err := tx.QueryRow(ctx, `INSERT INTO payments (order_id, receipt_number, amount, method, paid_at, created_at)
VALUES ($1, $2, $3, $4, $5, now()) RETURNING id`,
			p.OrderID, p.ReceiptNumber, p.Amount, p.Method, p.PaidAt).Scan(&id); err != nil {
			return fmt.Errorf("payments: insert: %w", err)
		}

		paid += p.Amount
		if _, err := tx.Exec(ctx, `UPDATE service_orders SET paid_amount = $1, payment_status = $2, updated_at = now()
WHERE id = $3`, paid, derivePaymentStatus(total, paid), p.OrderID); err != nil {
			return fmt.Errorf("payments: update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// derivePaymentStatus maps the paid total onto the closed payment-status
// set: PARTIAL while the total stays below the order amount, PAID once it
// reaches it. A zero-total order never flips to PAID by accumulation alone.
func derivePaymentStatus(total, paid float64) orders.PaymentStatus {
	if paid >= total && total > 0 {
		return orders.PaymentPaid
	}
	return orders.PaymentPartial
}

// ListByOrder returns every payment registered against an order.
func (r *Repository) ListByOrder(ctx context.Context, orderID int64) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, order_id, receipt_number, amount, method, paid_at, created_at
FROM payments WHERE order_id = $1 ORDER BY paid_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("payments: list: %w", err)
	}
	defer rows.Close()
	var list []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.ReceiptNumber, &p.Amount, &p.Method, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("payments: scan: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payments: rows: %w", err)
	}
	return list, nil
}
