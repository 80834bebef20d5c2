package planning

import (
	"math"
	"testing"

	"mrp_backend/platform/apperr"
)

func TestCalculateRequirements_ScalesSpecifiedLines(t *testing.T) {
	bom := BillOfMaterials{"Steel": 2, "Paint": 3}

	reqs, err := CalculateRequirements(bom, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reqs["Steel"].Total != 10 || !reqs["Steel"].Specified {
		t.Fatalf("expected Steel total 10 specified, got %+v", reqs["Steel"])
	}
	if reqs["Paint"].Total != 15 || !reqs["Paint"].Specified {
		t.Fatalf("expected Paint total 15 specified, got %+v", reqs["Paint"])
	}
}

func TestCalculateRequirements_UnspecifiedLinesCarriedThrough(t *testing.T) {
	bom := BillOfMaterials{"Steel": 2, "Glue": 0}

	reqs, err := CalculateRequirements(bom, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	glue, ok := reqs["Glue"]
	if !ok {
		t.Fatal("expected unspecified line to be carried through")
	}
	if glue.Specified {
		t.Fatal("expected Glue to be flagged unspecified")
	}
	if glue.Total != 0 {
		t.Fatalf("expected unspecified total 0, got %d", glue.Total)
	}
}

func TestCalculateRequirements_RejectsNonPositiveQuantity(t *testing.T) {
	bom := BillOfMaterials{"Steel": 2}

	for _, qty := range []int64{0, -1} {
		_, err := CalculateRequirements(bom, qty)
		if err == nil {
			t.Fatalf("expected error for quantity %d", qty)
		}
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for quantity %d, got %v", qty, err)
		}
	}
}

func TestCalculateRequirements_RejectsOverflowingTotals(t *testing.T) {
	bom := BillOfMaterials{"Steel": math.MaxInt64}

	_, err := CalculateRequirements(bom, 2)
	if err == nil {
		t.Fatal("expected error for overflowing total")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// The boundary itself is fine: MaxInt64 per unit for a single unit.
	reqs, err := CalculateRequirements(bom, 1)
	if err != nil {
		t.Fatalf("unexpected error at boundary: %v", err)
	}
	if reqs["Steel"].Total != math.MaxInt64 {
		t.Fatalf("expected boundary total %d, got %d", int64(math.MaxInt64), reqs["Steel"].Total)
	}
}

func TestCalculateRequirements_EmptyBill(t *testing.T) {
	reqs, err := CalculateRequirements(BillOfMaterials{}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs) != 0 {
		t.Fatalf("expected no requirements, got %v", reqs)
	}
}
