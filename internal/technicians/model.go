package technicians

import "time"

// Technician is a repair technician employed by the business.
type Technician struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Specialty *string   `json:"specialty,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTechnicianRequest registers a new technician.
type CreateTechnicianRequest struct {
	Name      string  `json:"name" validate:"required,max=150"`
	Phone     string  `json:"phone" validate:"required,max=30"`
	Specialty *string `json:"specialty,omitempty" validate:"omitempty,max=100"`
}

// UpdateTechnicianRequest patches an existing technician.
type UpdateTechnicianRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=150"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Specialty *string `json:"specialty,omitempty" validate:"omitempty,max=100"`
	IsActive  *bool   `json:"is_active,omitempty"`
}
