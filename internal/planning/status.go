// Package planning implements the materials requirement and approval engine:
// bill-of-materials parsing, requirement scaling, inventory availability
// checking, and the product/order lifecycle state machines.
package planning

import (
	"fmt"

	"mrp_backend/platform/apperr"
)

// Status is the lifecycle status shared by products and orders.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusCancelled Status = "Cancelled"
)

// transitions is the closed transition table. Cancelled is terminal.
var transitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusApproved:  true,
		StatusCancelled: true,
	},
	StatusApproved: {
		StatusPending:   true, // re-flagged insufficient on re-check
		StatusCancelled: true,
	},
	StatusCancelled: {},
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no transitions leave s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// CanTransition reports whether the transition s -> to is allowed.
// Self-transitions are permitted; re-running a check that yields the same
// status is not an error.
func (s Status) CanTransition(to Status) bool {
	if !s.Valid() || !to.Valid() {
		return false
	}
	if s == to {
		return true
	}
	return transitions[s][to]
}

// ParseStatus converts a stored string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", apperr.Internal(fmt.Sprintf("unknown status %q", raw))
	}
	return s, nil
}
