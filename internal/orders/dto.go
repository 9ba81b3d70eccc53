package orders

import "time"

// CreateOrderRequest creates a service order together with its first status
// history entry and its appliance lines in one transaction.
type CreateOrderRequest struct {
	ClientID     int64                    `json:"client_id" validate:"required,gt=0"`
	ReceivedDate time.Time                `json:"received_date" validate:"required"`
	Preorder     bool                     `json:"preorder"`
	Presupuesto  float64                  `json:"presupuesto" validate:"gte=0"`
	Notes        *string                  `json:"notes,omitempty"`
	Appliances   []CreateApplianceLineReq `json:"appliances" validate:"required,min=1,dive"`
}

// CreateApplianceLineReq is one appliance line of a new order.
type CreateApplianceLineReq struct {
	ClientApplianceID int64  `json:"client_appliance_id" validate:"required,gt=0"`
	Falla             string `json:"falla" validate:"required,max=500"`
}

// UpdateStatusRequest transitions an order to a new status.
type UpdateStatusRequest struct {
	Status Status  `json:"status" validate:"required"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// AssignTechnicianRequest links a technician to an order.
type AssignTechnicianRequest struct {
	TechnicianID int64 `json:"technician_id" validate:"required,gt=0"`
}

// ApplyWarrantyRequest re-opens a delivered order under warranty.
type ApplyWarrantyRequest struct {
	EndDate   *time.Time `json:"end_date,omitempty"`
	Ilimitada bool       `json:"ilimitada"`
	Prioridad Priority   `json:"prioridad" validate:"required,oneof=BAJA MEDIA ALTA"`
	Razon     string     `json:"razon" validate:"required,max=500"`
}

// SetSolutionRequest records the solution text on an appliance line.
type SetSolutionRequest struct {
	LineID   int64  `json:"line_id" validate:"required,gt=0"`
	Solucion string `json:"solucion" validate:"required,max=500"`
}

// ListOrdersRequest filters the paginated order listing.
type ListOrdersRequest struct {
	Status        *Status        `json:"status,omitempty"`
	PaymentStatus *PaymentStatus `json:"payment_status,omitempty"`
	ClientID      *int64         `json:"client_id,omitempty"`
	TechnicianID  *int64         `json:"technician_id,omitempty"`
	DateFrom      *time.Time     `json:"date_from,omitempty"`
	DateTo        *time.Time     `json:"date_to,omitempty"`
	Limit         int            `json:"limit" validate:"gte=0,lte=1000"`
	Offset        int            `json:"offset" validate:"gte=0"`
}
