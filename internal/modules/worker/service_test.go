package worker

import (
	"testing"

	"bazaar/internal/modules/user"
	"bazaar/internal/types"
)

func TestJoinCandidates_KeepsDistanceOrder(t *testing.T) {
	eligible := []user.Profile{
		{ID: "w1", Name: "Asha"},
		{ID: "w2", Name: "Ravi"},
		{ID: "w3", Name: "Meena"},
	}
	located := []Located{
		{WorkerID: "w2", Distance: 0.4},
		{WorkerID: "w3", Distance: 1.1},
		{WorkerID: "w1", Distance: 2.8},
	}

	got := joinCandidates(eligible, located)

	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	want := []types.ID{"w2", "w3", "w1"}
	for i, id := range want {
		if got[i].WorkerID != id {
			t.Errorf("candidate[%d] = %s, want %s", i, got[i].WorkerID, id)
		}
	}
	if got[0].Name != "Ravi" {
		t.Errorf("candidate[0].Name = %q, want Ravi", got[0].Name)
	}
}

func TestJoinCandidates_DropsIneligible(t *testing.T) {
	// A worker present in the GEO index but deactivated in the directory
	// must never be suggested.
	eligible := []user.Profile{{ID: "w1", Name: "Asha"}}
	located := []Located{
		{WorkerID: "w1", Distance: 0.5},
		{WorkerID: "w_ghost", Distance: 0.1},
	}

	got := joinCandidates(eligible, located)

	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].WorkerID != "w1" {
		t.Errorf("candidate = %s, want w1", got[0].WorkerID)
	}
}

func TestJoinCandidates_Empty(t *testing.T) {
	if got := joinCandidates(nil, nil); len(got) != 0 {
		t.Errorf("expected no candidates, got %v", got)
	}
}
