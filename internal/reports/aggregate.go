package reports

import (
	"errors"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taller-erp/taller-erp/internal/orders"
)

// ErrNoData signals that there is nothing to aggregate. It is a user-facing
// "nothing to export" condition, distinct from a structure with no sections;
// callers must check for it before rendering.
var ErrNoData = errors.New("reports: no data")

// WarrantyOrder is the reduced projection used by the warranty report.
type WarrantyOrder struct {
	OrderNumber   string          `json:"order_number"`
	Falla         string          `json:"falla"`
	Priority      orders.Priority `json:"priority,omitempty"`
	ClientName    string          `json:"client_name"`
	ClientPhone   string          `json:"client_phone"`
	ApplianceName string          `json:"appliance_name"`
	BrandName     string          `json:"brand_name"`
}

// ServiceOrder extends the reduced projection for the services report.
type ServiceOrder struct {
	WarrantyOrder
	Status            orders.Status        `json:"status"`
	ReceivedDate      time.Time            `json:"received_date"`
	PresupuestoAmount float64              `json:"presupuesto_amount"`
	PaymentStatus     orders.PaymentStatus `json:"payment_status"`
}

// TechnicianWarranty is one bucket of the warranty-by-technician report.
type TechnicianWarranty struct {
	TechnicianKey
	WarrantyCount  int             `json:"warranty_count"`
	PriorityStats  PriorityTally   `json:"priority_stats"`
	WarrantyOrders []WarrantyOrder `json:"warranty_orders"`
}

// StatusStats counts services per order status, one named counter for every
// status in the closed set plus a fail-open bucket for unmapped values.
type StatusStats struct {
	Pending          int `json:"pending"`
	Assigned         int `json:"assigned"`
	Reparando        int `json:"reparando"`
	PendienteAvisar  int `json:"pendiente_avisar"`
	Facturado        int `json:"facturado"`
	Aprobado         int `json:"aprobado"`
	Completed        int `json:"completed"`
	Delivered        int `json:"delivered"`
	GarantiaAplicada int `json:"garantia_aplicada"`
	NoAprobado       int `json:"no_aprobado"`
	Cancelled        int `json:"cancelled"`
	Preorder         int `json:"preorder"`
	Unknown          int `json:"unknown"`
}

func (s *StatusStats) add(status orders.Status) {
	switch status {
	case orders.StatusPending:
		s.Pending++
	case orders.StatusAssigned:
		s.Assigned++
	case orders.StatusReparando:
		s.Reparando++
	case orders.StatusPendienteAvisar:
		s.PendienteAvisar++
	case orders.StatusFacturado:
		s.Facturado++
	case orders.StatusAprobado:
		s.Aprobado++
	case orders.StatusCompleted:
		s.Completed++
	case orders.StatusDelivered:
		s.Delivered++
	case orders.StatusGarantiaAplicada:
		s.GarantiaAplicada++
	case orders.StatusNoAprobado:
		s.NoAprobado++
	case orders.StatusCancelled:
		s.Cancelled++
	case orders.StatusPreorder:
		s.Preorder++
	default:
		s.Unknown++
	}
}

// TechnicianServices is one bucket of the services-by-technician report.
type TechnicianServices struct {
	TechnicianKey
	TotalServices int            `json:"total_services"`
	StatusStats   StatusStats    `json:"status_stats"`
	Services      []ServiceOrder `json:"services"`
}

// TechnicianGroup is the inner level of the status report: one technician
// name with the full order snapshots placed under it.
type TechnicianGroup struct {
	Name     string         `json:"name"`
	Services []orders.Order `json:"services"`
}

// StatusGroup is the outer level of the status report.
type StatusGroup struct {
	Status      orders.Status     `json:"status"`
	Technicians []TechnicianGroup `json:"technicians"`
}

// StatusReport is the grouped-by-status-then-technician result. TotalServices
// is the grand input count, computed once and independent of grouping.
type StatusReport struct {
	Data          []StatusGroup `json:"data"`
	TotalServices int           `json:"total_services"`
}

func projectWarrantyOrder(o orders.Order) WarrantyOrder {
	w := WarrantyOrder{
		OrderNumber: o.OrderNumber,
		Priority:    o.GarantiaPrioridad,
		ClientName:  o.Client.Name,
		ClientPhone: o.Client.Phone,
	}
	if len(o.Appliances) > 0 {
		line := o.Appliances[0]
		w.Falla = line.Falla
		w.ApplianceName = line.ApplianceName
		w.BrandName = line.BrandName
	}
	return w
}

func projectServiceOrder(o orders.Order) ServiceOrder {
	return ServiceOrder{
		WarrantyOrder:     projectWarrantyOrder(o),
		Status:            o.Status,
		ReceivedDate:      o.ReceivedDate,
		PresupuestoAmount: o.PresupuestoAmount,
		PaymentStatus:     o.PaymentStatus,
	}
}

// nameComparer sorts technician names with Spanish collation so accented
// names land where a reader expects them.
func nameComparer() *collate.Collator {
	return collate.New(language.Spanish)
}

// WarrantyByTechnician builds the warranty report: only orders under
// warranty at the given instant, one bucket per currently responsible
// technician. An order with several active technicians appears in every one
// of their buckets; an order with no active technician appears in no bucket,
// so totals can undercount unassigned claims. Returns ErrNoData when no
// order is under warranty.
func WarrantyByTechnician(list []orders.Order, now time.Time) ([]TechnicianWarranty, error) {
	var covered []orders.Order
	for _, o := range list {
		if UnderWarranty(o, now) {
			covered = append(covered, o)
		}
	}
	if len(covered) == 0 {
		return nil, ErrNoData
	}

	buckets := make(map[string]*TechnicianWarranty)
	for _, o := range covered {
		projection := projectWarrantyOrder(o)
		for _, key := range ActiveTechnicians(o) {
			bucket, ok := buckets[key.ID]
			if !ok {
				bucket = &TechnicianWarranty{TechnicianKey: key}
				buckets[key.ID] = bucket
			}
			bucket.WarrantyCount++
			bucket.PriorityStats.add(o.GarantiaPrioridad)
			bucket.WarrantyOrders = append(bucket.WarrantyOrders, projection)
		}
	}
	if len(buckets) == 0 {
		return nil, ErrNoData
	}

	result := make([]TechnicianWarranty, 0, len(buckets))
	for _, bucket := range buckets {
		// Most urgent claims first inside each bucket.
		sort.SliceStable(bucket.WarrantyOrders, func(i, j int) bool {
			ri, rj := bucket.WarrantyOrders[i].Priority.Rank(), bucket.WarrantyOrders[j].Priority.Rank()
			if ri != rj {
				return ri < rj
			}
			return bucket.WarrantyOrders[i].OrderNumber < bucket.WarrantyOrders[j].OrderNumber
		})
		result = append(result, *bucket)
	}
	cmp := nameComparer()
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].WarrantyCount != result[j].WarrantyCount {
			return result[i].WarrantyCount > result[j].WarrantyCount
		}
		return cmp.CompareString(result[i].Name, result[j].Name) < 0
	})
	return result, nil
}

// ServicesByTechnician builds the all-orders report. Orders without a
// currently responsible technician accumulate into the reserved unassigned
// bucket instead of being dropped; orders with several active technicians
// count once per technician. Returns ErrNoData on empty input.
func ServicesByTechnician(list []orders.Order) ([]TechnicianServices, error) {
	if len(list) == 0 {
		return nil, ErrNoData
	}

	buckets := make(map[string]*TechnicianServices)
	accumulate := func(key TechnicianKey, o orders.Order) {
		bucket, ok := buckets[key.ID]
		if !ok {
			bucket = &TechnicianServices{TechnicianKey: key}
			buckets[key.ID] = bucket
		}
		bucket.TotalServices++
		bucket.StatusStats.add(o.Status)
		bucket.Services = append(bucket.Services, projectServiceOrder(o))
	}

	for _, o := range list {
		keys := ActiveTechnicians(o)
		if len(keys) == 0 {
			accumulate(UnassignedKey(), o)
			continue
		}
		for _, key := range keys {
			accumulate(key, o)
		}
	}

	result := make([]TechnicianServices, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, *bucket)
	}
	cmp := nameComparer()
	sort.SliceStable(result, func(i, j int) bool {
		// The reserved bucket always closes the report.
		if result[i].ID == UnassignedID || result[j].ID == UnassignedID {
			return result[j].ID == UnassignedID && result[i].ID != UnassignedID
		}
		return cmp.CompareString(result[i].Name, result[j].Name) < 0
	})
	return result, nil
}

// ByStatusThenTechnician builds the two-level status report. Outer groups
// follow the canonical status display order, with unknown statuses surfaced
// as-is after every known one; statuses absent from the input are omitted.
// Inner groups are keyed by technician name (falling back to the reserved
// name) and sorted alphabetically. Returns ErrNoData on empty input.
func ByStatusThenTechnician(list []orders.Order) (*StatusReport, error) {
	if len(list) == 0 {
		return nil, ErrNoData
	}

	type statusBucket struct {
		status      orders.Status
		technicians map[string][]orders.Order
	}
	byStatus := make(map[orders.Status]*statusBucket)
	for _, o := range list {
		bucket, ok := byStatus[o.Status]
		if !ok {
			bucket = &statusBucket{status: o.Status, technicians: make(map[string][]orders.Order)}
			byStatus[o.Status] = bucket
		}
		keys := ActiveTechnicians(o)
		if len(keys) == 0 {
			bucket.technicians[UnassignedName] = append(bucket.technicians[UnassignedName], o)
			continue
		}
		for _, key := range keys {
			bucket.technicians[key.Name] = append(bucket.technicians[key.Name], o)
		}
	}

	statuses := make([]orders.Status, 0, len(byStatus))
	for status := range byStatus {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool {
		ri, rj := statuses[i].DisplayRank(), statuses[j].DisplayRank()
		if ri != rj {
			return ri < rj
		}
		return statuses[i] < statuses[j]
	})

	cmp := nameComparer()
	report := &StatusReport{TotalServices: len(list)}
	for _, status := range statuses {
		bucket := byStatus[status]
		names := make([]string, 0, len(bucket.technicians))
		for name := range bucket.technicians {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return cmp.CompareString(names[i], names[j]) < 0
		})

		group := StatusGroup{Status: status, Technicians: make([]TechnicianGroup, 0, len(names))}
		for _, name := range names {
			group.Technicians = append(group.Technicians, TechnicianGroup{
				Name:     name,
				Services: bucket.technicians[name],
			})
		}
		report.Data = append(report.Data, group)
	}
	return report, nil
}
