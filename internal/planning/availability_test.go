package planning

import "testing"

func TestCheckAvailability_Shortfall(t *testing.T) {
	reqs := Requirements{"M": {Total: 10, Specified: true}}
	snapshot := InventorySnapshot{"M": 5}

	shortfalls := CheckAvailability(reqs, snapshot)
	if len(shortfalls) != 1 {
		t.Fatalf("expected 1 shortfall, got %d", len(shortfalls))
	}

	s := shortfalls[0]
	if s.Material != "M" || s.Needed != 10 {
		t.Fatalf("unexpected shortfall %+v", s)
	}
	if s.Available == nil || *s.Available != 5 {
		t.Fatalf("expected available 5, got %v", s.Available)
	}
	if s.Reason != ReasonInsufficient {
		t.Fatalf("expected reason insufficient, got %s", s.Reason)
	}
}

func TestCheckAvailability_ExactlyEnough(t *testing.T) {
	reqs := Requirements{"M": {Total: 10, Specified: true}}
	snapshot := InventorySnapshot{"M": 10}

	if shortfalls := CheckAvailability(reqs, snapshot); len(shortfalls) != 0 {
		t.Fatalf("expected no shortfalls, got %v", shortfalls)
	}
}

func TestCheckAvailability_MaterialNotFound(t *testing.T) {
	reqs := Requirements{"M": {Total: 10, Specified: true}}

	shortfalls := CheckAvailability(reqs, InventorySnapshot{})
	if len(shortfalls) != 1 {
		t.Fatalf("expected 1 shortfall, got %d", len(shortfalls))
	}
	if shortfalls[0].Available != nil {
		t.Fatalf("expected nil available for missing material, got %v", *shortfalls[0].Available)
	}
	if shortfalls[0].Reason != ReasonNotFound {
		t.Fatalf("expected reason not_found, got %s", shortfalls[0].Reason)
	}
}

func TestCheckAvailability_FoundWithZeroIsInsufficientNotMissing(t *testing.T) {
	reqs := Requirements{"M": {Total: 1, Specified: true}}
	snapshot := InventorySnapshot{"M": 0}

	shortfalls := CheckAvailability(reqs, snapshot)
	if len(shortfalls) != 1 {
		t.Fatalf("expected 1 shortfall, got %d", len(shortfalls))
	}
	if shortfalls[0].Reason != ReasonInsufficient {
		t.Fatalf("expected insufficient, got %s", shortfalls[0].Reason)
	}
	if shortfalls[0].Available == nil || *shortfalls[0].Available != 0 {
		t.Fatal("expected available 0, not nil")
	}
}

func TestCheckAvailability_UnspecifiedAlwaysReported(t *testing.T) {
	reqs := Requirements{"Glue": {Total: 0, Specified: false}}
	snapshot := InventorySnapshot{"Glue": 1000}

	shortfalls := CheckAvailability(reqs, snapshot)
	if len(shortfalls) != 1 {
		t.Fatalf("expected unspecified line to block, got %v", shortfalls)
	}
	if shortfalls[0].Reason != ReasonUnspecified {
		t.Fatalf("expected reason unspecified, got %s", shortfalls[0].Reason)
	}
	if shortfalls[0].Available == nil || *shortfalls[0].Available != 1000 {
		t.Fatal("expected snapshot quantity to be reported alongside")
	}
}

func TestCheckAvailability_OrderedByMaterialName(t *testing.T) {
	reqs := Requirements{
		"Zinc":  {Total: 5, Specified: true},
		"Alu":   {Total: 5, Specified: true},
		"Steel": {Total: 5, Specified: true},
	}

	shortfalls := CheckAvailability(reqs, InventorySnapshot{})
	if len(shortfalls) != 3 {
		t.Fatalf("expected 3 shortfalls, got %d", len(shortfalls))
	}
	if shortfalls[0].Material != "Alu" || shortfalls[1].Material != "Steel" || shortfalls[2].Material != "Zinc" {
		t.Fatalf("expected sorted shortfalls, got %v", shortfalls)
	}
}
