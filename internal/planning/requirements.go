package planning

import (
	"fmt"
	"math"

	"mrp_backend/platform/apperr"
)

// Requirement is the scaled demand for a single material. Specified is false
// when the bill carried no usable per-unit quantity; such lines can never be
// proven satisfiable and always block an automatic approval.
type Requirement struct {
	Total     int64 `json:"total"`
	Specified bool  `json:"specified"`
}

// Requirements maps material name to its scaled requirement.
type Requirements map[string]Requirement

// CalculateRequirements scales a bill of materials by an order quantity.
// Lines with a per-unit quantity of zero are carried through as unspecified
// rather than dropped. A non-positive order quantity is rejected, as is any
// line whose scaled total would not fit in an int64.
func CalculateRequirements(bom BillOfMaterials, orderQty int64) (Requirements, error) {
	if orderQty <= 0 {
		return nil, apperr.Validation("order quantity must be a positive integer")
	}

	reqs := make(Requirements, len(bom))
	for name, perUnit := range bom {
		if perUnit > 0 {
			if perUnit > math.MaxInt64/orderQty {
				return nil, apperr.Validation(
					fmt.Sprintf("required quantity for material %q exceeds the supported range", name))
			}
			reqs[name] = Requirement{Total: perUnit * orderQty, Specified: true}
		} else {
			reqs[name] = Requirement{Total: 0, Specified: false}
		}
	}
	return reqs, nil
}
