package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taller-erp/taller-erp/internal/platform/db"
)

// ErrNotFound indicates the order does not exist.
var ErrNotFound = errors.New("orders: not found")

// Repository provides PostgreSQL backed persistence for service orders.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const orderColumns = `o.id, o.order_number, o.status, o.payment_status,
COALESCE(o.total_amount, 0), COALESCE(o.paid_amount, 0), COALESCE(o.presupuesto_amount, 0),
o.received_date, o.garantia_end_date, COALESCE(o.garantia_ilimitada, false),
COALESCE(o.garantia_prioridad, ''), o.razon_garantia,
c.id, c.name, COALESCE(c.phone, ''), o.created_at, o.updated_at`

const orderFromClause = `FROM service_orders o JOIN clients c ON c.id = o.client_id`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var prioridad string
	if err := row.Scan(
		&o.ID, &o.OrderNumber, &o.Status, &o.PaymentStatus,
		&o.TotalAmount, &o.PaidAmount, &o.PresupuestoAmount,
		&o.ReceivedDate, &o.GarantiaEndDate, &o.GarantiaIlimitada,
		&prioridad, &o.RazonGarantia,
		&o.Client.ID, &o.Client.Name, &o.Client.Phone, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.GarantiaPrioridad = Priority(prioridad)
	return &o, nil
}

// Get loads one order aggregate: order row, client, appliance lines and
// technician assignments.
func (r *Repository) Get(ctx context.Context, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` `+orderFromClause+` WHERE o.id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("orders: get: %w", err)
	}
	if err := r.attachDetails(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// List returns a filtered page of order aggregates plus the total match count.
func (r *Repository) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	appendCond := func(cond string, value any) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, value)
		argPos++
	}

	if req.Status != nil {
		appendCond("o.status = $%d", *req.Status)
	}
	if req.PaymentStatus != nil {
		appendCond("o.payment_status = $%d", *req.PaymentStatus)
	}
	if req.ClientID != nil {
		appendCond("o.client_id = $%d", *req.ClientID)
	}
	if req.TechnicianID != nil {
		appendCond("EXISTS (SELECT 1 FROM order_technicians ot WHERE ot.order_id = o.id AND ot.technician_id = $%d AND ot.is_active)", *req.TechnicianID)
	}
	if req.DateFrom != nil {
		appendCond("o.received_date >= $%d", *req.DateFrom)
	}
	if req.DateTo != nil {
		appendCond("o.received_date <= $%d", *req.DateTo)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) `+orderFromClause+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("orders: count: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s %s%s ORDER BY o.received_date DESC, o.id DESC LIMIT $%d OFFSET $%d`,
		orderColumns, orderFromClause, where, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	list, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListOrderSnapshots loads every order aggregate. The reporting engine consumes
// this as its immutable input collection.
func (r *Repository) ListOrderSnapshots(ctx context.Context) ([]Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` `+orderFromClause+` ORDER BY o.received_date DESC, o.id DESC`)
}

func (r *Repository) queryOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders: query: %w", err)
	}
	defer rows.Close()

	var list []Order
	var refs []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("orders: scan: %w", err)
		}
		list = append(list, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders: rows: %w", err)
	}
	for i := range list {
		refs = append(refs, &list[i])
	}
	if err := r.attachDetails(ctx, refs); err != nil {
		return nil, err
	}
	return list, nil
}

// attachDetails batch-loads appliance lines and technician assignments for
// the given orders.
func (r *Repository) attachDetails(ctx context.Context, list []*Order) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(list))
	index := make(map[int64]*Order, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
		index[o.ID] = o
	}

	lineRows, err := r.pool.Query(ctx, `SELECT oa.order_id, oa.id, oa.falla, oa.solucion,
ca.name, COALESCE(b.name, ''), COALESCE(t.name, '')
FROM order_appliances oa
JOIN client_appliances ca ON ca.id = oa.client_appliance_id
LEFT JOIN brands b ON b.id = ca.brand_id
LEFT JOIN appliance_types t ON t.id = ca.appliance_type_id
WHERE oa.order_id = ANY($1)
ORDER BY oa.order_id, oa.id`, ids)
	if err != nil {
		return fmt.Errorf("orders: load lines: %w", err)
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var orderID int64
		var line ApplianceLine
		if err := lineRows.Scan(&orderID, &line.ID, &line.Falla, &line.Solucion,
			&line.ApplianceName, &line.BrandName, &line.TypeName); err != nil {
			return fmt.Errorf("orders: scan line: %w", err)
		}
		if o, ok := index[orderID]; ok {
			o.Appliances = append(o.Appliances, line)
		}
	}
	if err := lineRows.Err(); err != nil {
		return fmt.Errorf("orders: line rows: %w", err)
	}

	assignRows, err := r.pool.Query(ctx, `SELECT ot.order_id, ot.id, ot.is_active, ot.assigned_at,
t.id, COALESCE(t.name, '')
FROM order_technicians ot
JOIN technicians t ON t.id = ot.technician_id
WHERE ot.order_id = ANY($1)
ORDER BY ot.order_id, ot.assigned_at, ot.id`, ids)
	if err != nil {
		return fmt.Errorf("orders: load assignments: %w", err)
	}
	defer assignRows.Close()
	for assignRows.Next() {
		var orderID int64
		var a TechnicianAssignment
		if err := assignRows.Scan(&orderID, &a.ID, &a.IsActive, &a.AssignedAt,
			&a.Technician.ID, &a.Technician.Name); err != nil {
			return fmt.Errorf("orders: scan assignment: %w", err)
		}
		if o, ok := index[orderID]; ok {
			o.TechnicianAssignments = append(o.TechnicianAssignments, a)
		}
	}
	if err := assignRows.Err(); err != nil {
		return fmt.Errorf("orders: assignment rows: %w", err)
	}
	return nil
}

// GenerateNumber produces the next order number for the month, ORD-YYYYMM-NNNN.
func (r *Repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	prefix := fmt.Sprintf("ORD-%s-", date.Format("200601"))
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM service_orders WHERE order_number LIKE $1`, prefix+"%").Scan(&count)
	if err != nil {
		return "", fmt.Errorf("orders: generate number: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// CreateOrderInput carries the validated values inserted by Create.
type CreateOrderInput struct {
	OrderNumber  string
	ClientID     int64
	Status       Status
	ReceivedDate time.Time
	Presupuesto  float64
	Notes        *string
	CreatedBy    int64
	Appliances   []CreateApplianceLineReq
}

// Create inserts the order, its first status-history row and its appliance
// junction rows as one atomic unit. A failure in any step rolls the whole
// unit back so a half-created order can never exist.
func (r *Repository) Create(ctx context.Context, input CreateOrderInput) (int64, error) {
	var orderID int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now()
		if err := tx.QueryRow(ctx, `INSERT INTO service_orders
(order_number, client_id, status, payment_status, total_amount, paid_amount, presupuesto_amount, received_date, garantia_ilimitada, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, 0, 0, $5, $6, false, $7, $8, $8) RETURNING id`,
			input.OrderNumber, input.ClientID, input.Status, PaymentPending,
			input.Presupuesto, input.ReceivedDate, input.Notes, now).Scan(&orderID); err != nil {
			return fmt.Errorf("orders: insert order: %w", err)
		}

		if _, err := tx.Exec(ctx, `INSERT INTO order_status_history (order_id, status, changed_by, changed_at)
VALUES ($1, $2, $3, $4)`, orderID, input.Status, input.CreatedBy, now); err != nil {
			return fmt.Errorf("orders: insert status history: %w", err)
		}

		for _, line := range input.Appliances {
			if _, err := tx.Exec(ctx, `INSERT INTO order_appliances (order_id, client_appliance_id, falla)
VALUES ($1, $2, $3)`, orderID, line.ClientApplianceID, line.Falla); err != nil {
				return fmt.Errorf("orders: insert appliance line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// UpdateStatus moves the order to a new status and appends the history row
// in one transaction.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status, note *string, changedBy int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now()
		tag, err := tx.Exec(ctx, `UPDATE service_orders SET status = $1, updated_at = $2 WHERE id = $3`, status, now, id)
		if err != nil {
			return fmt.Errorf("orders: update status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `INSERT INTO order_status_history (order_id, status, note, changed_by, changed_at)
VALUES ($1, $2, $3, $4, $5)`, id, status, note, changedBy, now); err != nil {
			return fmt.Errorf("orders: insert status history: %w", err)
		}
		return nil
	})
}

// AssignTechnician appends an active assignment row. Reassignment after an
// unassign inserts a fresh row with its own assigned_at, so earlier rows keep
// the full assignment history. While an active row exists the insert is a
// no-op: at most one active row per (order, technician).
func (r *Repository) AssignTechnician(ctx context.Context, orderID, technicianID int64) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO order_technicians (order_id, technician_id, is_active, assigned_at)
SELECT $1, $2, true, $3
WHERE NOT EXISTS (
	SELECT 1 FROM order_technicians WHERE order_id = $1 AND technician_id = $2 AND is_active
)`,
		orderID, technicianID, time.Now())
	if err != nil {
		return fmt.Errorf("orders: assign technician: %w", err)
	}
	return nil
}

// UnassignTechnician deactivates a technician's current assignment without
// deleting the history row.
func (r *Repository) UnassignTechnician(ctx context.Context, orderID, technicianID int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE order_technicians SET is_active = false
WHERE order_id = $1 AND technician_id = $2 AND is_active`, orderID, technicianID)
	if err != nil {
		return fmt.Errorf("orders: unassign technician: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyWarranty sets the warranty fields, moves the order to
// GARANTIA_APLICADA and appends the history row in one transaction.
func (r *Repository) ApplyWarranty(ctx context.Context, id int64, req ApplyWarrantyRequest, changedBy int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now()
		tag, err := tx.Exec(ctx, `UPDATE service_orders
SET garantia_end_date = $1, garantia_ilimitada = $2, garantia_prioridad = $3, razon_garantia = $4,
    status = $5, updated_at = $6
WHERE id = $7`,
			req.EndDate, req.Ilimitada, req.Prioridad, req.Razon, StatusGarantiaAplicada, now, id)
		if err != nil {
			return fmt.Errorf("orders: apply warranty: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `INSERT INTO order_status_history (order_id, status, note, changed_by, changed_at)
VALUES ($1, $2, $3, $4, $5)`, id, StatusGarantiaAplicada, req.Razon, changedBy, now); err != nil {
			return fmt.Errorf("orders: insert status history: %w", err)
		}
		return nil
	})
}

// SetSolution records the solution text on one appliance line.
func (r *Repository) SetSolution(ctx context.Context, orderID, lineID int64, solucion string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE order_appliances SET solucion = $1 WHERE id = $2 AND order_id = $3`,
		solucion, lineID, orderID)
	if err != nil {
		return fmt.Errorf("orders: set solution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// StatusHistory returns the status trail of an order, oldest first.
func (r *Repository) StatusHistory(ctx context.Context, orderID int64) ([]StatusHistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, order_id, status, note, changed_by, changed_at
FROM order_status_history WHERE order_id = $1 ORDER BY changed_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("orders: status history: %w", err)
	}
	defer rows.Close()
	var entries []StatusHistoryEntry
	for rows.Next() {
		var e StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.Note, &e.ChangedBy, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("orders: scan history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders: history rows: %w", err)
	}
	return entries, nil
}
