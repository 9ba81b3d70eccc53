package reports

import (
	"strconv"

	"github.com/taller-erp/taller-erp/internal/orders"
)

// Reserved bucket for orders without a current technician.
const (
	UnassignedID   = "unassigned"
	UnassignedName = "Sin Asignar"
)

// TechnicianKey identifies a report bucket. ID is the technician ID rendered
// as a string, or the reserved "unassigned" value.
type TechnicianKey struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnassignedKey returns the reserved bucket key.
func UnassignedKey() TechnicianKey {
	return TechnicianKey{ID: UnassignedID, Name: UnassignedName}
}

// ActiveTechnicians returns the technicians currently responsible for the
// order. Historical (inactive) assignments are ignored, and duplicate
// active rows for the same technician collapse into one entry. An active
// assignment whose technician name is missing falls back to the reserved
// unassigned bucket instead of failing the aggregation.
func ActiveTechnicians(o orders.Order) []TechnicianKey {
	var keys []TechnicianKey
	seen := make(map[string]struct{})
	for _, a := range o.TechnicianAssignments {
		if !a.IsActive {
			continue
		}
		key := technicianKey(a.Technician)
		if _, dup := seen[key.ID]; dup {
			continue
		}
		seen[key.ID] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

func technicianKey(t orders.TechnicianRef) TechnicianKey {
	if t.Name == "" {
		return UnassignedKey()
	}
	return TechnicianKey{ID: strconv.FormatInt(t.ID, 10), Name: t.Name}
}
