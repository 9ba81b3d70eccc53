package appliances

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the record does not exist.
	ErrNotFound = errors.New("appliances: not found")
	// ErrDuplicateName indicates a brand or type name already registered.
	ErrDuplicateName = errors.New("appliances: name already registered")
)

// Repository provides PostgreSQL backed persistence for brands, appliance
// types and client appliances.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func duplicateOr(err error, wrap string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateName
	}
	return fmt.Errorf("appliances: %s: %w", wrap, err)
}

// CreateBrand inserts a brand.
func (r *Repository) CreateBrand(ctx context.Context, name string) (*Brand, error) {
	var b Brand
	err := r.pool.QueryRow(ctx, `INSERT INTO brands (name) VALUES ($1) RETURNING id, name`, name).Scan(&b.ID, &b.Name)
	if err != nil {
		return nil, duplicateOr(err, "create brand")
	}
	return &b, nil
}

// ListBrands returns every brand.
func (r *Repository) ListBrands(ctx context.Context) ([]Brand, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM brands ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("appliances: list brands: %w", err)
	}
	defer rows.Close()
	var list []Brand
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("appliances: scan brand: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// CreateType inserts an appliance type.
func (r *Repository) CreateType(ctx context.Context, name string) (*ApplianceType, error) {
	var t ApplianceType
	err := r.pool.QueryRow(ctx, `INSERT INTO appliance_types (name) VALUES ($1) RETURNING id, name`, name).Scan(&t.ID, &t.Name)
	if err != nil {
		return nil, duplicateOr(err, "create type")
	}
	return &t, nil
}

// ListTypes returns every appliance type.
func (r *Repository) ListTypes(ctx context.Context) ([]ApplianceType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM appliance_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("appliances: list types: %w", err)
	}
	defer rows.Close()
	var list []ApplianceType
	for rows.Next() {
		var t ApplianceType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("appliances: scan type: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

const clientApplianceColumns = `ca.id, ca.client_id, ca.name, ca.model, ca.serial,
b.id, b.name, t.id, t.name, ca.created_at`

func scanClientAppliance(row pgx.Row) (*ClientAppliance, error) {
	var a ClientAppliance
	if err := row.Scan(&a.ID, &a.ClientID, &a.Name, &a.Model, &a.Serial,
		&a.Brand.ID, &a.Brand.Name, &a.Type.ID, &a.Type.Name, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateClientAppliance registers an appliance for a client.
func (r *Repository) CreateClientAppliance(ctx context.Context, req CreateClientApplianceRequest) (*ClientAppliance, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO client_appliances (client_id, name, model, serial, brand_id, appliance_type_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now()) RETURNING id`,
		req.ClientID, req.Name, req.Model, req.Serial, req.BrandID, req.TypeID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("appliances: create client appliance: %w", err)
	}
	return r.GetClientAppliance(ctx, id)
}

// GetClientAppliance loads one client appliance with brand and type names.
func (r *Repository) GetClientAppliance(ctx context.Context, id int64) (*ClientAppliance, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+clientApplianceColumns+`
FROM client_appliances ca
JOIN brands b ON b.id = ca.brand_id
JOIN appliance_types t ON t.id = ca.appliance_type_id
WHERE ca.id = $1`, id)
	a, err := scanClientAppliance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appliances: get client appliance: %w", err)
	}
	return a, nil
}

// ListByClient returns the appliances owned by a client.
func (r *Repository) ListByClient(ctx context.Context, clientID int64) ([]ClientAppliance, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clientApplianceColumns+`
FROM client_appliances ca
JOIN brands b ON b.id = ca.brand_id
JOIN appliance_types t ON t.id = ca.appliance_type_id
WHERE ca.client_id = $1 ORDER BY ca.name, ca.id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("appliances: list by client: %w", err)
	}
	defer rows.Close()
	var list []ClientAppliance
	for rows.Next() {
		a, err := scanClientAppliance(rows)
		if err != nil {
			return nil, fmt.Errorf("appliances: scan client appliance: %w", err)
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}
