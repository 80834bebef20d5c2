package planning

import "testing"

func TestParseBillOfMaterials_DashAndColonSeparators(t *testing.T) {
	bom, warnings := ParseBillOfMaterials("Steel - 5; Paint: 3")

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if len(bom) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(bom))
	}
	if bom["Steel"] != 5 {
		t.Fatalf("expected Steel=5, got %d", bom["Steel"])
	}
	if bom["Paint"] != 3 {
		t.Fatalf("expected Paint=3, got %d", bom["Paint"])
	}
}

func TestParseBillOfMaterials_CommaSeparator(t *testing.T) {
	bom, _ := ParseBillOfMaterials("Bolt - 10, Nut - 10")

	if bom["Bolt"] != 10 || bom["Nut"] != 10 {
		t.Fatalf("unexpected bill: %v", bom)
	}
}

func TestParseBillOfMaterials_MissingQuantityIsUnspecifiedWithWarning(t *testing.T) {
	bom, warnings := ParseBillOfMaterials("Copper Wire")

	if bom["Copper Wire"] != 0 {
		t.Fatalf("expected unspecified quantity 0, got %d", bom["Copper Wire"])
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Segment != "Copper Wire" {
		t.Fatalf("unexpected warning segment %q", warnings[0].Segment)
	}
}

func TestParseBillOfMaterials_SkipsEmptySegments(t *testing.T) {
	bom, warnings := ParseBillOfMaterials(" ; Steel - 2 ;; , ")

	if len(bom) != 1 {
		t.Fatalf("expected 1 material, got %v", bom)
	}
	if bom["Steel"] != 2 {
		t.Fatalf("expected Steel=2, got %d", bom["Steel"])
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestParseBillOfMaterials_DuplicateNameLastWins(t *testing.T) {
	bom, _ := ParseBillOfMaterials("Steel - 5; Steel - 9")

	if len(bom) != 1 {
		t.Fatalf("expected 1 material, got %d", len(bom))
	}
	if bom["Steel"] != 9 {
		t.Fatalf("expected last occurrence to win (9), got %d", bom["Steel"])
	}
}

func TestParseBillOfMaterials_NameContainingInnerDash(t *testing.T) {
	bom, _ := ParseBillOfMaterials("M8-Hex Bolt - 4")

	if bom["M8-Hex Bolt"] != 4 {
		t.Fatalf("expected trailing quantity match, got %v", bom)
	}
}

func TestParseBillOfMaterials_OverflowQuantityDefaultsToUnspecified(t *testing.T) {
	bom, warnings := ParseBillOfMaterials("Steel - 99999999999999999999999999")

	if bom["Steel"] != 0 {
		t.Fatalf("expected defaulted quantity 0, got %d", bom["Steel"])
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
}

func TestParseBillOfMaterials_EmptyInput(t *testing.T) {
	bom, warnings := ParseBillOfMaterials("   ")

	if !bom.Empty() {
		t.Fatalf("expected empty bill, got %v", bom)
	}
	if warnings != nil {
		t.Fatalf("expected nil warnings, got %v", warnings)
	}
}

func TestParseBillOfMaterialsJSON_RoundTrip(t *testing.T) {
	bom, err := ParseBillOfMaterialsJSON([]byte(`{"Steel":5,"Paint":0}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bom["Steel"] != 5 || bom["Paint"] != 0 {
		t.Fatalf("unexpected bill: %v", bom)
	}
}

func TestParseBillOfMaterialsJSON_RejectsNegativeQuantity(t *testing.T) {
	if _, err := ParseBillOfMaterialsJSON([]byte(`{"Steel":-1}`)); err == nil {
		t.Fatal("expected error for negative quantity")
	}
}

func TestBillOfMaterials_MaterialsSorted(t *testing.T) {
	bom := BillOfMaterials{"Zinc": 1, "Alu": 2, "Steel": 3}
	names := bom.Materials()

	if len(names) != 3 || names[0] != "Alu" || names[1] != "Steel" || names[2] != "Zinc" {
		t.Fatalf("expected sorted names, got %v", names)
	}
}
