package reports

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/taller-erp/taller-erp/internal/orders"
)

func assigned(id int64, name string) orders.TechnicianAssignment {
	return orders.TechnicianAssignment{
		IsActive:   true,
		Technician: orders.TechnicianRef{ID: id, Name: name},
	}
}

func unassignedOrder(number string, status orders.Status) orders.Order {
	return orders.Order{
		OrderNumber: number,
		Status:      status,
		Client:      orders.ClientRef{Name: "Cliente", Phone: "555"},
		Appliances:  []orders.ApplianceLine{{Falla: "no enfría", ApplianceName: "Heladera", BrandName: "Patrick"}},
	}
}

func TestServicesByTechnicianGroupsAndUnassignedBucket(t *testing.T) {
	ana := unassignedOrder("ORD-0001", orders.StatusPending)
	ana.TechnicianAssignments = []orders.TechnicianAssignment{assigned(7, "Ana")}
	list := []orders.Order{
		ana,
		unassignedOrder("ORD-0002", orders.StatusPending),
		unassignedOrder("ORD-0003", orders.StatusPending),
	}

	result, err := ServicesByTechnician(list)
	if err != nil {
		t.Fatalf("services by technician: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(result))
	}
	if result[0].Name != "Ana" || result[0].TotalServices != 1 {
		t.Fatalf("unexpected first bucket: %+v", result[0])
	}
	if result[1].ID != UnassignedID || result[1].Name != UnassignedName {
		t.Fatalf("expected reserved bucket last, got %+v", result[1])
	}
	if result[1].TotalServices != 2 {
		t.Fatalf("expected 2 unassigned services, got %d", result[1].TotalServices)
	}
	if result[0].StatusStats.Pending != 1 || result[1].StatusStats.Pending != 2 {
		t.Fatalf("unexpected status stats: %+v / %+v", result[0].StatusStats, result[1].StatusStats)
	}
}

func TestServicesByTechnicianMultiAssignmentDuplicates(t *testing.T) {
	o := unassignedOrder("ORD-0010", orders.StatusReparando)
	o.TechnicianAssignments = []orders.TechnicianAssignment{
		assigned(1, "Ana"),
		assigned(2, "Bruno"),
		assigned(3, "Carla"),
	}

	result, err := ServicesByTechnician([]orders.Order{o})
	if err != nil {
		t.Fatalf("services by technician: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("expected one bucket per active technician, got %d", len(result))
	}
	sum := 0
	for _, bucket := range result {
		if bucket.TotalServices != 1 {
			t.Fatalf("bucket %s counted %d services", bucket.Name, bucket.TotalServices)
		}
		sum += bucket.TotalServices
	}
	if sum != 3 {
		t.Fatalf("expected the order counted once per technician, total %d", sum)
	}
}

func TestServicesByTechnicianIgnoresInactiveAndDuplicateRows(t *testing.T) {
	o := unassignedOrder("ORD-0011", orders.StatusAssigned)
	o.TechnicianAssignments = []orders.TechnicianAssignment{
		{IsActive: false, Technician: orders.TechnicianRef{ID: 9, Name: "Viejo"}},
		{IsActive: false, Technician: orders.TechnicianRef{ID: 4, Name: "Diego"}},
		assigned(4, "Diego"),
		assigned(4, "Diego"),
	}

	result, err := ServicesByTechnician([]orders.Order{o})
	if err != nil {
		t.Fatalf("services by technician: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected a single bucket, got %d", len(result))
	}
	if result[0].Name != "Diego" || result[0].TotalServices != 1 {
		t.Fatalf("unexpected bucket: %+v", result[0])
	}
}

func TestServicesByTechnicianEmptyInput(t *testing.T) {
	if _, err := ServicesByTechnician(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestServicesByTechnicianCountsUnknownStatus(t *testing.T) {
	o := unassignedOrder("ORD-0012", orders.Status("EN_REVISION"))
	result, err := ServicesByTechnician([]orders.Order{o})
	if err != nil {
		t.Fatalf("services by technician: %v", err)
	}
	if result[0].StatusStats.Unknown != 1 {
		t.Fatalf("expected unknown counter 1, got %+v", result[0].StatusStats)
	}
}

func TestWarrantyByTechnicianFiltersAndSorts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 1, 0)
	past := now.AddDate(0, -1, 0)

	covered1 := unassignedOrder("ORD-0020", orders.StatusGarantiaAplicada)
	covered1.GarantiaEndDate = &future
	covered1.GarantiaPrioridad = orders.PriorityAlta
	covered1.TechnicianAssignments = []orders.TechnicianAssignment{assigned(1, "Ana")}

	covered2 := unassignedOrder("ORD-0021", orders.StatusGarantiaAplicada)
	covered2.GarantiaIlimitada = true
	covered2.TechnicianAssignments = []orders.TechnicianAssignment{assigned(1, "Ana")}

	covered3 := unassignedOrder("ORD-0022", orders.StatusGarantiaAplicada)
	covered3.GarantiaIlimitada = true
	covered3.TechnicianAssignments = []orders.TechnicianAssignment{assigned(2, "Bruno")}

	expired := unassignedOrder("ORD-0023", orders.StatusGarantiaAplicada)
	expired.GarantiaEndDate = &past
	expired.TechnicianAssignments = []orders.TechnicianAssignment{assigned(2, "Bruno")}

	result, err := WarrantyByTechnician([]orders.Order{covered1, covered2, covered3, expired}, now)
	if err != nil {
		t.Fatalf("warranty by technician: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(result))
	}
	if result[0].Name != "Ana" || result[0].WarrantyCount != 2 {
		t.Fatalf("expected Ana first with 2 covered orders, got %+v", result[0])
	}
	if result[1].Name != "Bruno" || result[1].WarrantyCount != 1 {
		t.Fatalf("expected Bruno with 1 covered order, got %+v", result[1])
	}
	if result[0].PriorityStats.Alta != 1 {
		t.Fatalf("expected one ALTA in Ana's tally, got %+v", result[0].PriorityStats)
	}
	// The ALTA claim sorts ahead of the one without a priority.
	if result[0].WarrantyOrders[0].OrderNumber != "ORD-0020" {
		t.Fatalf("unexpected order inside bucket: %+v", result[0].WarrantyOrders)
	}
}

func TestWarrantyByTechnicianSkipsUnassignedClaims(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	orphan := unassignedOrder("ORD-0030", orders.StatusGarantiaAplicada)
	orphan.GarantiaIlimitada = true

	covered := unassignedOrder("ORD-0031", orders.StatusGarantiaAplicada)
	covered.GarantiaIlimitada = true
	covered.TechnicianAssignments = []orders.TechnicianAssignment{assigned(1, "Ana")}

	result, err := WarrantyByTechnician([]orders.Order{orphan, covered}, now)
	if err != nil {
		t.Fatalf("warranty by technician: %v", err)
	}
	if len(result) != 1 || result[0].Name != "Ana" || result[0].WarrantyCount != 1 {
		t.Fatalf("expected only Ana's claim counted, got %+v", result)
	}

	// With nothing but orphans there is no bucket to build.
	if _, err := WarrantyByTechnician([]orders.Order{orphan}, now); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestWarrantyByTechnicianNoCoverage(t *testing.T) {
	now := time.Now()
	o := unassignedOrder("ORD-0024", orders.StatusCompleted)
	o.TechnicianAssignments = []orders.TechnicianAssignment{assigned(1, "Ana")}
	if _, err := WarrantyByTechnician([]orders.Order{o}, now); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := WarrantyByTechnician(nil, now); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData on empty input, got %v", err)
	}
}

func TestWarrantyPriorityTallySkipsUnset(t *testing.T) {
	alta := orders.Order{GarantiaPrioridad: orders.PriorityAlta}
	unset := orders.Order{}
	tally := TallyPriorities([]orders.Order{alta, unset})
	want := PriorityTally{Alta: 1}
	if tally != want {
		t.Fatalf("expected %+v, got %+v", want, tally)
	}
}

func TestUnderWarranty(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 1)
	past := now.AddDate(0, 0, -1)

	cases := []struct {
		name  string
		order orders.Order
		want  bool
	}{
		{"unlimited", orders.Order{GarantiaIlimitada: true}, true},
		{"unlimited beats expired date", orders.Order{GarantiaIlimitada: true, GarantiaEndDate: &past}, true},
		{"future end date", orders.Order{GarantiaEndDate: &future}, true},
		{"end date today", orders.Order{GarantiaEndDate: &now}, true},
		{"expired", orders.Order{GarantiaEndDate: &past}, false},
		{"no warranty", orders.Order{}, false},
	}
	for _, tc := range cases {
		if got := UnderWarranty(tc.order, now); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestByStatusThenTechnicianOrdering(t *testing.T) {
	delivered := unassignedOrder("ORD-0030", orders.StatusDelivered)
	delivered.TechnicianAssignments = []orders.TechnicianAssignment{assigned(1, "Óscar")}

	pending1 := unassignedOrder("ORD-0031", orders.StatusPending)
	pending1.TechnicianAssignments = []orders.TechnicianAssignment{assigned(2, "Pedro")}
	pending2 := unassignedOrder("ORD-0032", orders.StatusPending)

	unknown := unassignedOrder("ORD-0033", orders.Status("EN_REVISION"))

	report, err := ByStatusThenTechnician([]orders.Order{delivered, pending1, pending2, unknown})
	if err != nil {
		t.Fatalf("by status: %v", err)
	}
	if report.TotalServices != 4 {
		t.Fatalf("expected total 4, got %d", report.TotalServices)
	}
	gotStatuses := make([]orders.Status, 0, len(report.Data))
	for _, group := range report.Data {
		gotStatuses = append(gotStatuses, group.Status)
	}
	want := []orders.Status{orders.StatusPending, orders.StatusDelivered, orders.Status("EN_REVISION")}
	if !reflect.DeepEqual(gotStatuses, want) {
		t.Fatalf("unexpected status order: %v", gotStatuses)
	}

	pendingGroup := report.Data[0]
	if len(pendingGroup.Technicians) != 2 {
		t.Fatalf("expected 2 technician groups under PENDING, got %d", len(pendingGroup.Technicians))
	}
	// Spanish collation: "Pedro" before "Sin Asignar".
	if pendingGroup.Technicians[0].Name != "Pedro" || pendingGroup.Technicians[1].Name != UnassignedName {
		t.Fatalf("unexpected technician order: %+v", pendingGroup.Technicians)
	}
	if len(pendingGroup.Technicians[1].Services) != 1 {
		t.Fatalf("expected 1 unassigned pending order, got %d", len(pendingGroup.Technicians[1].Services))
	}
}

func TestByStatusThenTechnicianEmptyInput(t *testing.T) {
	if _, err := ByStatusThenTechnician(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestReportsAreDeterministic(t *testing.T) {
	a := unassignedOrder("ORD-0040", orders.StatusPending)
	a.TechnicianAssignments = []orders.TechnicianAssignment{assigned(1, "Ana"), assigned(2, "Bruno")}
	b := unassignedOrder("ORD-0041", orders.StatusCompleted)
	b.TechnicianAssignments = []orders.TechnicianAssignment{assigned(2, "Bruno")}
	c := unassignedOrder("ORD-0042", orders.StatusCancelled)
	list := []orders.Order{a, b, c}

	first, err := ServicesByTechnician(list)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := ServicesByTechnician(list)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("services report not deterministic:\n%+v\n%+v", first, second)
	}

	r1, err := ByStatusThenTechnician(list)
	if err != nil {
		t.Fatalf("first status run: %v", err)
	}
	r2, err := ByStatusThenTechnician(list)
	if err != nil {
		t.Fatalf("second status run: %v", err)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Fatalf("status report not deterministic")
	}
}

func TestComputeFinancials(t *testing.T) {
	list := []orders.Order{
		{TotalAmount: 100, PaidAmount: 40, PaymentStatus: orders.PaymentPartial},
		// PAID wins over the numeric remainder.
		{TotalAmount: 80, PaidAmount: 50, PaymentStatus: orders.PaymentPaid},
	}
	f := ComputeFinancials(list)
	if f.TotalRevenue != 180 {
		t.Fatalf("expected revenue 180, got %v", f.TotalRevenue)
	}
	if f.TotalPaid != 90 {
		t.Fatalf("expected paid 90, got %v", f.TotalPaid)
	}
	if f.PendingAmount != 60 {
		t.Fatalf("expected pending 60, got %v", f.PendingAmount)
	}
}

func TestProjectionUsesFirstApplianceLine(t *testing.T) {
	o := unassignedOrder("ORD-0050", orders.StatusPending)
	o.Appliances = append(o.Appliances, orders.ApplianceLine{Falla: "otra", ApplianceName: "Lavarropas"})

	result, err := ServicesByTechnician([]orders.Order{o})
	if err != nil {
		t.Fatalf("services by technician: %v", err)
	}
	svc := result[0].Services[0]
	if svc.Falla != "no enfría" || svc.ApplianceName != "Heladera" {
		t.Fatalf("expected projection from first line, got %+v", svc)
	}
}
