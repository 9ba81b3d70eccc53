package clients

import "time"

// Client is a customer of the repair business.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateClientRequest registers a new client.
type CreateClientRequest struct {
	Name    string  `json:"name" validate:"required,max=150"`
	Phone   string  `json:"phone" validate:"required,max=30"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=250"`
}

// UpdateClientRequest patches an existing client.
type UpdateClientRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=150"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=250"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ListClientsRequest filters the paginated client listing.
type ListClientsRequest struct {
	Search   *string `json:"search,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
