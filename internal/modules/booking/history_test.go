// README: History projection tests (normalize, sort, filter).
package booking

import (
	"testing"
	"time"

	"bazaar/internal/types"
)

func historyFixture() []Booking {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []Booking{
		{
			ID:        "b_cab",
			Vertical:  VerticalCab,
			Status:    StatusCompleted,
			Amount:    types.Money{Amount: 18000, Currency: "INR"},
			Pickup:    types.Place{Address: "MG Road"},
			Dropoff:   types.Place{Address: "Airport"},
			CreatedAt: base.Add(2 * time.Hour),
		},
		{
			ID:        "b_food",
			Vertical:  VerticalFood,
			Status:    StatusDelivering,
			Amount:    types.Money{Amount: 45000, Currency: "INR"},
			Dropoff:   types.Place{Address: "Flat 4B"},
			Items:     []LineItem{{Name: "Thali", Quantity: 2}},
			CreatedAt: base.Add(3 * time.Hour),
		},
		{
			ID:        "b_rental",
			Vertical:  VerticalRental,
			Status:    StatusInquiry,
			Amount:    types.Money{Amount: 2500000, Currency: "INR"},
			Note:      "2BHK near the lake",
			CreatedAt: base,
		},
	}
}

func TestHistoryNormalize(t *testing.T) {
	entries := normalizeHistory(historyFixture())
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	byID := make(map[types.ID]HistoryEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	cab := byID["b_cab"]
	if cab.Type != VerticalCab || cab.Status != StatusCompleted {
		t.Errorf("cab entry mismatch: %+v", cab)
	}
	if cab.Title != "Cab ride" {
		t.Errorf("cab title = %q", cab.Title)
	}
	if cab.Detail != "MG Road → Airport" {
		t.Errorf("cab detail = %q", cab.Detail)
	}
	if cab.Amount.Amount != 18000 {
		t.Errorf("cab amount = %d", cab.Amount.Amount)
	}

	if food := byID["b_food"]; food.Detail != "1 item(s) to Flat 4B" {
		t.Errorf("food detail = %q", food.Detail)
	}
	if rental := byID["b_rental"]; rental.Detail != "2BHK near the lake" {
		t.Errorf("rental detail = %q", rental.Detail)
	}
}

func TestHistorySortNewestFirst(t *testing.T) {
	entries := normalizeHistory(historyFixture())
	sortHistory(entries)

	want := []types.ID{"b_food", "b_cab", "b_rental"}
	for i, id := range want {
		if entries[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, entries[i].ID)
		}
	}
}

// Ties on creation time keep their incoming order.
func TestHistorySortStableOnTies(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []HistoryEntry{
		{ID: "a", CreatedAt: at},
		{ID: "b", CreatedAt: at},
		{ID: "c", CreatedAt: at.Add(time.Hour)},
	}
	sortHistory(entries)

	if entries[0].ID != "c" || entries[1].ID != "a" || entries[2].ID != "b" {
		t.Fatalf("unexpected order: %s %s %s", entries[0].ID, entries[1].ID, entries[2].ID)
	}
}

func TestHistoryFilter(t *testing.T) {
	entries := normalizeHistory(historyFixture())
	sortHistory(entries)

	onlyFood := filterHistory(entries, VerticalFood)
	if len(onlyFood) != 1 || onlyFood[0].ID != "b_food" {
		t.Fatalf("food filter: %+v", onlyFood)
	}

	all := filterHistory(entries, "")
	if len(all) != len(entries) {
		t.Fatalf("empty filter dropped entries: %d != %d", len(all), len(entries))
	}

	none := filterHistory(entries, VerticalLogistics)
	if len(none) != 0 {
		t.Fatalf("expected no logistics entries, got %d", len(none))
	}
}

// Filtering commutes with sorting: filter-then-sort equals sort-then-filter.
func TestHistoryFilterSortCommute(t *testing.T) {
	entries := normalizeHistory(historyFixture())

	a := filterHistory(append([]HistoryEntry(nil), entries...), VerticalCab)
	sortHistory(a)

	b := append([]HistoryEntry(nil), entries...)
	sortHistory(b)
	b = filterHistory(b, VerticalCab)

	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("position %d: %s != %s", i, a[i].ID, b[i].ID)
		}
	}
}
