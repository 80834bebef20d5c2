package planning

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusCancelled, true},
		{StatusApproved, StatusPending, true},
		{StatusApproved, StatusCancelled, true},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusApproved, false},
		{StatusCancelled, StatusCancelled, true}, // idempotent no-op
		{StatusPending, StatusPending, true},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() || StatusApproved.Terminal() {
		t.Fatal("Pending and Approved must not be terminal")
	}
	if !StatusCancelled.Terminal() {
		t.Fatal("Cancelled must be terminal")
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"Pending", "Approved", "Cancelled"} {
		status, err := ParseStatus(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if string(status) != raw {
			t.Fatalf("expected %q, got %q", raw, status)
		}
	}

	if _, err := ParseStatus("approved"); err == nil {
		t.Fatal("expected error for unknown casing")
	}
}
