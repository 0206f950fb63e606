// README: Lifecycle table tests (no database).
package booking

import "testing"

// TestCanTransition verifies each vertical's transition table without a database.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		vertical Vertical
		from, to Status
		want     bool
	}{
		// cab forward flow
		{VerticalCab, StatusPending, StatusAccepted, true},
		{VerticalCab, StatusAccepted, StatusOngoing, true},
		{VerticalCab, StatusOngoing, StatusCompleted, true},
		// commerce forward flow
		{VerticalCommerce, StatusPending, StatusAccepted, true},
		{VerticalCommerce, StatusAccepted, StatusPreparing, true},
		{VerticalCommerce, StatusPreparing, StatusDelivering, true},
		{VerticalCommerce, StatusDelivering, StatusDelivered, true},
		// food inserts ready between preparing and delivering
		{VerticalFood, StatusPreparing, StatusReady, true},
		{VerticalFood, StatusReady, StatusDelivering, true},
		{VerticalFood, StatusPreparing, StatusDelivering, false},
		// logistics forward flow
		{VerticalLogistics, StatusPending, StatusAssigned, true},
		{VerticalLogistics, StatusAssigned, StatusPickedUp, true},
		{VerticalLogistics, StatusPickedUp, StatusDelivering, true},
		{VerticalLogistics, StatusDelivering, StatusDelivered, true},
		// home services
		{VerticalService, StatusPending, StatusAssigned, true},
		{VerticalService, StatusAssigned, StatusOngoing, true},
		{VerticalService, StatusOngoing, StatusCompleted, true},
		// rentals
		{VerticalRental, StatusInquiry, StatusConfirmed, true},
		{VerticalRental, StatusConfirmed, StatusActive, true},
		{VerticalRental, StatusActive, StatusCompleted, true},
		// cancel from every non-terminal state
		{VerticalCab, StatusPending, StatusCancelled, true},
		{VerticalCab, StatusAccepted, StatusCancelled, true},
		{VerticalCab, StatusOngoing, StatusCancelled, true},
		{VerticalCommerce, StatusDelivering, StatusCancelled, true},
		{VerticalFood, StatusReady, StatusCancelled, true},
		{VerticalLogistics, StatusPickedUp, StatusCancelled, true},
		{VerticalRental, StatusActive, StatusCancelled, true},
		// invalid: terminal states have no outgoing edges
		{VerticalCab, StatusCompleted, StatusPending, false},
		{VerticalCab, StatusCancelled, StatusPending, false},
		{VerticalCommerce, StatusDelivered, StatusPending, false},
		{VerticalCommerce, StatusDelivered, StatusCancelled, false},
		{VerticalRental, StatusCompleted, StatusInquiry, false},
		// invalid: skipping states
		{VerticalCab, StatusPending, StatusOngoing, false},
		{VerticalCab, StatusPending, StatusCompleted, false},
		{VerticalCommerce, StatusPending, StatusDelivered, false},
		{VerticalCommerce, StatusAccepted, StatusDelivering, false},
		{VerticalLogistics, StatusPending, StatusPickedUp, false},
		{VerticalService, StatusPending, StatusOngoing, false},
		{VerticalRental, StatusInquiry, StatusActive, false},
		// invalid: going backwards
		{VerticalCab, StatusOngoing, StatusAccepted, false},
		{VerticalCommerce, StatusPreparing, StatusAccepted, false},
		// invalid: statuses from another vertical's enum
		{VerticalCab, StatusPending, StatusAssigned, false},
		{VerticalRental, StatusInquiry, StatusAccepted, false},
	}
	for _, tc := range cases {
		lc, ok := LifecycleOf(tc.vertical)
		if !ok {
			t.Fatalf("no lifecycle for %s", tc.vertical)
		}
		got := lc.CanTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("%s: CanTransition(%s, %s) = %v, want %v",
				tc.vertical, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	cab, _ := LifecycleOf(VerticalCab)
	for _, s := range []Status{StatusPending, StatusAccepted, StatusOngoing, StatusCompleted, StatusCancelled} {
		if !cab.ValidStatus(s) {
			t.Errorf("cab: expected %s to be a valid status", s)
		}
	}
	for _, s := range []Status{StatusPreparing, StatusDelivered, StatusInquiry, Status("driving"), ""} {
		if cab.ValidStatus(s) {
			t.Errorf("cab: expected %s to be rejected", s)
		}
	}

	rental, _ := LifecycleOf(VerticalRental)
	if !rental.ValidStatus(StatusInquiry) {
		t.Error("rental: expected inquiry to be valid")
	}
	if rental.ValidStatus(StatusPending) {
		t.Error("rental: expected pending to be rejected")
	}
}

// TestLifecycleRegistry checks every vertical has a coherent definition: the
// initial status is in the enum, the assigned status (when present) is
// reachable from the initial one, and cancelled is always terminal.
func TestLifecycleRegistry(t *testing.T) {
	for _, v := range Verticals() {
		lc, ok := LifecycleOf(v)
		if !ok {
			t.Fatalf("no lifecycle for %s", v)
		}
		if !lc.ValidStatus(lc.Initial) {
			t.Errorf("%s: initial status %s not in enum", v, lc.Initial)
		}
		if lc.Assigned != "" && !lc.CanTransition(lc.Initial, lc.Assigned) {
			t.Errorf("%s: assigned status %s not reachable from %s", v, lc.Assigned, lc.Initial)
		}
		if got := lc.Transitions[StatusCancelled]; len(got) != 0 {
			t.Errorf("%s: cancelled must be terminal, has edges %v", v, got)
		}
	}

	if _, ok := LifecycleOf(Vertical("groceries")); ok {
		t.Error("expected unknown vertical to have no lifecycle")
	}

	// Rentals have no fulfilment actor.
	rental, _ := LifecycleOf(VerticalRental)
	if rental.Assigned != "" {
		t.Errorf("rental: expected no assigned status, got %s", rental.Assigned)
	}
}
