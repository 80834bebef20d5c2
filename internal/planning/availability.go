package planning

import "sort"

// InventorySnapshot maps material name to the currently available quantity.
// It is read-only from the engine's perspective: availability checks never
// deduct or reserve stock.
type InventorySnapshot map[string]int64

// ShortfallReason classifies why a material blocks approval.
type ShortfallReason string

const (
	// ReasonInsufficient means the material exists but available < needed.
	ReasonInsufficient ShortfallReason = "insufficient"
	// ReasonNotFound means the material is absent from the inventory snapshot.
	ReasonNotFound ShortfallReason = "not_found"
	// ReasonUnspecified means the bill carried no per-unit quantity, so
	// sufficiency cannot be verified.
	ReasonUnspecified ShortfallReason = "unspecified"
)

// Shortfall describes one material that prevents approval. Available is nil
// when the material was not found in the snapshot ("not found" is distinct
// from "found with 0").
type Shortfall struct {
	Material  string          `json:"material"`
	Needed    int64           `json:"needed"`
	Available *int64          `json:"available"`
	Reason    ShortfallReason `json:"reason"`
}

// CheckAvailability compares scaled requirements against an inventory
// snapshot and returns every shortfall, ordered by material name. An empty
// result means the requirement set is fully satisfiable. Unspecified
// requirements are always reported: their sufficiency cannot be proven.
func CheckAvailability(reqs Requirements, snapshot InventorySnapshot) []Shortfall {
	var shortfalls []Shortfall

	for name, req := range reqs {
		available, found := snapshot[name]

		if !req.Specified {
			shortfall := Shortfall{Material: name, Needed: 0, Reason: ReasonUnspecified}
			if found {
				avail := available
				shortfall.Available = &avail
			}
			shortfalls = append(shortfalls, shortfall)
			continue
		}

		if !found {
			shortfalls = append(shortfalls, Shortfall{
				Material: name,
				Needed:   req.Total,
				Reason:   ReasonNotFound,
			})
			continue
		}

		if available < req.Total {
			avail := available
			shortfalls = append(shortfalls, Shortfall{
				Material:  name,
				Needed:    req.Total,
				Available: &avail,
				Reason:    ReasonInsufficient,
			})
		}
	}

	sort.Slice(shortfalls, func(i, j int) bool {
		return shortfalls[i].Material < shortfalls[j].Material
	})
	return shortfalls
}
