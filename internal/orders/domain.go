package orders

import "time"

// Status enumerates the closed set of service order statuses.
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusAssigned         Status = "ASSIGNED"
	StatusReparando        Status = "REPARANDO"
	StatusPendienteAvisar  Status = "PENDIENTE_AVISAR"
	StatusFacturado        Status = "FACTURADO"
	StatusAprobado         Status = "APROBADO"
	StatusCompleted        Status = "COMPLETED"
	StatusDelivered        Status = "DELIVERED"
	StatusGarantiaAplicada Status = "GARANTIA_APLICADA"
	StatusNoAprobado       Status = "NO_APROBADO"
	StatusCancelled        Status = "CANCELLED"
	StatusPreorder         Status = "PREORDER"
)

// statusDisplayOrder is the canonical order for report sections and tables.
var statusDisplayOrder = [...]Status{
	StatusPending,
	StatusAssigned,
	StatusReparando,
	StatusPendienteAvisar,
	StatusFacturado,
	StatusAprobado,
	StatusCompleted,
	StatusDelivered,
	StatusGarantiaAplicada,
	StatusNoAprobado,
	StatusCancelled,
	StatusPreorder,
}

var statusRanks = buildStatusRanks()

func buildStatusRanks() map[Status]int {
	ranks := make(map[Status]int, len(statusDisplayOrder))
	for i, s := range statusDisplayOrder {
		ranks[s] = i
	}
	return ranks
}

// AllStatuses returns the closed status set in canonical display order.
func AllStatuses() []Status {
	out := make([]Status, len(statusDisplayOrder))
	copy(out, statusDisplayOrder[:])
	return out
}

// Known reports whether the status belongs to the closed set.
func (s Status) Known() bool {
	_, ok := statusRanks[s]
	return ok
}

// DisplayRank returns the sort weight for the canonical display order.
// Unknown statuses rank after every known one; they are surfaced as-is
// rather than rejected.
func (s Status) DisplayRank() int {
	if rank, ok := statusRanks[s]; ok {
		return rank
	}
	return len(statusDisplayOrder)
}

// PaymentStatus enumerates the payment state of an order. It is
// authoritative over numeric reconciliation when computing pending amounts.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPartial   PaymentStatus = "PARTIAL"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// Priority enumerates warranty claim priorities. The zero value means no
// priority has been set.
type Priority string

const (
	PriorityAlta  Priority = "ALTA"
	PriorityMedia Priority = "MEDIA"
	PriorityBaja  Priority = "BAJA"
)

// Rank returns urgency sort weight: ALTA sorts first, an unset or unknown
// priority sorts after every named one.
func (p Priority) Rank() int {
	switch p {
	case PriorityAlta:
		return 0
	case PriorityMedia:
		return 1
	case PriorityBaja:
		return 2
	default:
		return 3
	}
}

// Known reports whether the priority is one of BAJA, MEDIA, ALTA.
func (p Priority) Known() bool {
	switch p {
	case PriorityAlta, PriorityMedia, PriorityBaja:
		return true
	default:
		return false
	}
}

// ClientRef is the client slice of an order snapshot.
type ClientRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// TechnicianRef identifies a technician on an assignment.
type TechnicianRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TechnicianAssignment links an order to a technician. Historical rows keep
// IsActive false; only active rows count as current responsibility.
type TechnicianAssignment struct {
	ID         int64         `json:"id"`
	IsActive   bool          `json:"is_active"`
	AssignedAt time.Time     `json:"assigned_at"`
	Technician TechnicianRef `json:"technician"`
}

// ApplianceLine is the junction between an order and a client appliance,
// carrying the reported fault and eventual solution.
type ApplianceLine struct {
	ID            int64   `json:"id"`
	Falla         string  `json:"falla"`
	Solucion      *string `json:"solucion,omitempty"`
	ApplianceName string  `json:"appliance_name"`
	BrandName     string  `json:"brand_name"`
	TypeName      string  `json:"type_name"`
}

// Order is the canonical order snapshot shared by the CRUD layer and the
// reporting engine.
type Order struct {
	ID                    int64                  `json:"id"`
	OrderNumber           string                 `json:"order_number"`
	Status                Status                 `json:"status"`
	PaymentStatus         PaymentStatus          `json:"payment_status"`
	TotalAmount           float64                `json:"total_amount"`
	PaidAmount            float64                `json:"paid_amount"`
	PresupuestoAmount     float64                `json:"presupuesto_amount"`
	ReceivedDate          time.Time              `json:"received_date"`
	GarantiaEndDate       *time.Time             `json:"garantia_end_date,omitempty"`
	GarantiaIlimitada     bool                   `json:"garantia_ilimitada"`
	GarantiaPrioridad     Priority               `json:"garantia_prioridad,omitempty"`
	RazonGarantia         *string                `json:"razon_garantia,omitempty"`
	Client                ClientRef              `json:"client"`
	Appliances            []ApplianceLine        `json:"appliances"`
	TechnicianAssignments []TechnicianAssignment `json:"technician_assignments"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
}

// StatusHistoryEntry records one status change of an order.
type StatusHistoryEntry struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Status    Status    `json:"status"`
	Note      *string   `json:"note,omitempty"`
	ChangedBy int64     `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}
