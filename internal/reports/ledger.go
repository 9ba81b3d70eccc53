package reports

import (
	"math"

	"github.com/taller-erp/taller-erp/internal/orders"
)

// Financials aggregates money totals over an order collection.
type Financials struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalPaid     float64 `json:"total_paid"`
	PendingAmount float64 `json:"pending_amount"`
}

// ComputeFinancials derives revenue, paid and pending totals. An order
// marked PAID contributes nothing to the pending amount even when its
// numeric fields imply a remainder: the stored payment status is
// authoritative over the numeric delta. Non-finite amounts are treated as
// zero so a bad row can never poison a report total.
func ComputeFinancials(list []orders.Order) Financials {
	var f Financials
	for _, o := range list {
		total := sanitizeAmount(o.TotalAmount)
		paid := sanitizeAmount(o.PaidAmount)
		f.TotalRevenue += total
		f.TotalPaid += paid
		if o.PaymentStatus != orders.PaymentPaid {
			f.PendingAmount += total - paid
		}
	}
	return f
}

func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
