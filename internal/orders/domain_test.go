package orders

import "testing"

func TestStatusDisplayRank(t *testing.T) {
	if StatusPending.DisplayRank() != 0 {
		t.Fatalf("PENDING should rank first, got %d", StatusPending.DisplayRank())
	}
	if StatusPreorder.DisplayRank() != 11 {
		t.Fatalf("PREORDER should rank last of the known set, got %d", StatusPreorder.DisplayRank())
	}
	unknown := Status("EN_REVISION")
	if unknown.DisplayRank() != len(statusDisplayOrder) {
		t.Fatalf("unknown status should rank after every known one, got %d", unknown.DisplayRank())
	}
	if unknown.Known() {
		t.Fatal("unknown status reported as known")
	}
}

func TestAllStatusesIsACopy(t *testing.T) {
	all := AllStatuses()
	if len(all) != 12 {
		t.Fatalf("expected 12 statuses, got %d", len(all))
	}
	if all[0] != StatusPending || all[11] != StatusPreorder {
		t.Fatalf("canonical order not copied: %v", all)
	}
	all[0] = Status("MUTATED")
	if statusDisplayOrder[0] != StatusPending {
		t.Fatal("AllStatuses leaked the internal slice")
	}
	for _, s := range AllStatuses() {
		if !s.Known() {
			t.Fatalf("status %s missing from the rank table", s)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityAlta.Rank() >= PriorityMedia.Rank() || PriorityMedia.Rank() >= PriorityBaja.Rank() {
		t.Fatal("priority ranks out of order")
	}
	var unset Priority
	if unset.Rank() <= PriorityBaja.Rank() {
		t.Fatal("unset priority should sort after BAJA")
	}
	if unset.Known() || Priority("URGENTE").Known() {
		t.Fatal("unexpected priority reported as known")
	}
}
