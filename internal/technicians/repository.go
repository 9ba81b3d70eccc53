package technicians

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the technician does not exist.
var ErrNotFound = errors.New("technicians: not found")

// Repository provides PostgreSQL backed persistence for technicians.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const technicianColumns = `id, name, COALESCE(phone, ''), specialty, is_active, created_at, updated_at`

func scanTechnician(row pgx.Row) (*Technician, error) {
	var t Technician
	if err := row.Scan(&t.ID, &t.Name, &t.Phone, &t.Specialty, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new technician.
func (r *Repository) Create(ctx context.Context, req CreateTechnicianRequest) (*Technician, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO technicians (name, phone, specialty, is_active, created_at, updated_at)
VALUES ($1, $2, $3, true, now(), now()) RETURNING `+technicianColumns,
		req.Name, req.Phone, req.Specialty)
	t, err := scanTechnician(row)
	if err != nil {
		return nil, fmt.Errorf("technicians: create: %w", err)
	}
	return t, nil
}

// Get loads one technician.
func (r *Repository) Get(ctx context.Context, id int64) (*Technician, error) {
	t, err := scanTechnician(r.pool.QueryRow(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("technicians: get: %w", err)
	}
	return t, nil
}

// List returns technicians, optionally only active ones.
func (r *Repository) List(ctx context.Context, onlyActive bool) ([]Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("technicians: list: %w", err)
	}
	defer rows.Close()
	var list []Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("technicians: scan: %w", err)
		}
		list = append(list, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("technicians: rows: %w", err)
	}
	return list, nil
}

// Update patches the given fields of a technician.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateTechnicianRequest) error {
	var sets []string
	var args []any
	argPos := 1

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}
	if req.Name != nil {
		appendSet("name", *req.Name)
	}
	if req.Phone != nil {
		appendSet("phone", *req.Phone)
	}
	if req.Specialty != nil {
		appendSet("specialty", *req.Specialty)
	}
	if req.IsActive != nil {
		appendSet("is_active", *req.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}
	appendSet("updated_at", time.Now())

	query := fmt.Sprintf(`UPDATE technicians SET %s WHERE id = $%d`, strings.Join(sets, ", "), argPos)
	args = append(args, id)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("technicians: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
