package reports

import (
	"time"

	"github.com/taller-erp/taller-erp/internal/orders"
)

// UnderWarranty reports whether the order is covered at the given instant:
// an unlimited warranty, or an end date that has not passed. A nil end date
// without the unlimited flag means no coverage.
func UnderWarranty(o orders.Order, now time.Time) bool {
	if o.GarantiaIlimitada {
		return true
	}
	if o.GarantiaEndDate == nil {
		return false
	}
	return !o.GarantiaEndDate.Before(now)
}

// PriorityTally counts warranty orders per priority.
type PriorityTally struct {
	Baja  int `json:"baja"`
	Media int `json:"media"`
	Alta  int `json:"alta"`
}

// TallyPriorities counts strictly by the stored priority. Orders without a
// priority, or with a value outside the known set, are counted in none of
// the buckets. The caller is expected to have filtered the input to orders
// under warranty; no filtering happens here.
func TallyPriorities(list []orders.Order) PriorityTally {
	var tally PriorityTally
	for _, o := range list {
		tally.add(o.GarantiaPrioridad)
	}
	return tally
}

func (t *PriorityTally) add(p orders.Priority) {
	switch p {
	case orders.PriorityBaja:
		t.Baja++
	case orders.PriorityMedia:
		t.Media++
	case orders.PriorityAlta:
		t.Alta++
	default:
		// Unset or unmapped priorities are deliberately left out of the tally.
	}
}
