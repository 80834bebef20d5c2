package planning

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// BillOfMaterials maps a material name to its required quantity per unit.
// A quantity of zero means "not specified", not "zero required".
type BillOfMaterials map[string]int64

// Warning records a bill-of-materials segment whose quantity could not be
// parsed and was defaulted to unspecified. Warnings are informational; they
// never fail parsing.
type Warning struct {
	Segment string `json:"segment"`
	Reason  string `json:"reason"`
}

// entryPattern matches "<name> - <qty>" or "<name>: <qty>" with a trailing
// integer quantity.
var entryPattern = regexp.MustCompile(`^(.+?)\s*[-:]\s*([0-9]+)\s*$`)

// ParseBillOfMaterials converts a delimiter-separated materials specification
// into a normalized bill. Entries are separated by ';' or ','; each entry is
// "<name> [-|:] <quantity>". Segments without a recognizable quantity are kept
// with quantity 0 (unspecified) and reported as a warning. When a name appears
// more than once the last occurrence wins.
func ParseBillOfMaterials(spec string) (BillOfMaterials, []Warning) {
	bom := make(BillOfMaterials)
	var warnings []Warning

	if strings.TrimSpace(spec) == "" {
		return bom, nil
	}

	for _, segment := range strings.FieldsFunc(spec, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		match := entryPattern.FindStringSubmatch(segment)
		if match == nil {
			bom[segment] = 0
			warnings = append(warnings, Warning{
				Segment: segment,
				Reason:  "no quantity found, treated as unspecified",
			})
			continue
		}

		name := strings.TrimSpace(match[1])
		qty, err := strconv.ParseInt(match[2], 10, 64)
		if err != nil {
			// Digits-only token can still overflow int64.
			bom[name] = 0
			warnings = append(warnings, Warning{
				Segment: segment,
				Reason:  "quantity not a valid integer, treated as unspecified",
			})
			continue
		}

		bom[name] = qty
	}

	return bom, warnings
}

// ParseBillOfMaterialsJSON decodes the persisted flat name->quantity mapping.
// Negative quantities are rejected; they must never enter the model.
func ParseBillOfMaterialsJSON(data []byte) (BillOfMaterials, error) {
	if len(data) == 0 {
		return BillOfMaterials{}, nil
	}

	var raw map[string]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode bill of materials: %w", err)
	}

	bom := make(BillOfMaterials, len(raw))
	for name, qty := range raw {
		if qty < 0 {
			return nil, fmt.Errorf("material %q has negative quantity %d", name, qty)
		}
		bom[name] = qty
	}
	return bom, nil
}

// MarshalJSON serializes the bill as the flat name->quantity object used for
// persistence and the snapshot export.
func (b BillOfMaterials) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int64(b))
}

// Materials returns the material names in deterministic (sorted) order.
func (b BillOfMaterials) Materials() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the bill has no lines at all.
func (b BillOfMaterials) Empty() bool {
	return len(b) == 0
}
