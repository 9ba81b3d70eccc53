package appliances

import "time"

// Brand is an appliance manufacturer.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ApplianceType is a category of appliance (nevera, lavadora, ...).
type ApplianceType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ClientAppliance is an appliance owned by a client. Service orders refer
// to it through their appliance lines.
type ClientAppliance struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	Name      string    `json:"name"`
	Model     *string   `json:"model,omitempty"`
	Serial    *string   `json:"serial,omitempty"`
	Brand     Brand     `json:"brand"`
	Type      ApplianceType `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBrandRequest registers a brand.
type CreateBrandRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateTypeRequest registers an appliance type.
type CreateTypeRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateClientApplianceRequest registers an appliance for a client.
type CreateClientApplianceRequest struct {
	ClientID int64   `json:"client_id" validate:"required,gt=0"`
	Name     string  `json:"name" validate:"required,max=150"`
	Model    *string `json:"model,omitempty" validate:"omitempty,max=100"`
	Serial   *string `json:"serial,omitempty" validate:"omitempty,max=100"`
	BrandID  int64   `json:"brand_id" validate:"required,gt=0"`
	TypeID   int64   `json:"type_id" validate:"required,gt=0"`
}
