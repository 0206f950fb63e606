// README: Cross-vertical order history (fan-out, merge, sort, filter).
package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"bazaar/internal/types"
)

// HistoryEntry is the normalized projection shown in the unified history:
// every vertical's aggregate reduced to the same shape.
type HistoryEntry struct {
	ID        types.ID    `json:"id"`
	Type      Vertical    `json:"type"`
	Status    Status      `json:"status"`
	Amount    types.Money `json:"amount"`
	CreatedAt time.Time   `json:"created_at"`
	Title     string      `json:"title"`
	Detail    string      `json:"detail"`
}

var verticalTitles = map[Vertical]string{
	VerticalCab:       "Cab ride",
	VerticalCommerce:  "Quick commerce order",
	VerticalFood:      "Food order",
	VerticalRental:    "Rental inquiry",
	VerticalService:   "Home service booking",
	VerticalLogistics: "Logistics request",
}

// History reads the customer's aggregates across every vertical, merges them
// and sorts newest first. The per-vertical reads run concurrently; any
// single failure aborts the whole view — there is no partial result.
func (s *Service) History(ctx context.Context, customerID types.ID, typeFilter Vertical) ([]HistoryEntry, error) {
	if customerID == "" {
		return nil, ErrBadRequest
	}
	if typeFilter != "" {
		if _, ok := LifecycleOf(typeFilter); !ok {
			return nil, ErrUnknownVertical
		}
	}

	verticals := Verticals()
	perVertical := make([][]Booking, len(verticals))

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range verticals {
		i, v := i, v
		g.Go(func() error {
			bs, err := s.store.ListByCustomer(gctx, v, customerID)
			if err != nil {
				return fmt.Errorf("listing %s history: %w", v, err)
			}
			perVertical[i] = bs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Booking
	for _, bs := range perVertical {
		all = append(all, bs...)
	}

	entries := normalizeHistory(all)
	sortHistory(entries)
	return filterHistory(entries, typeFilter), nil
}

func normalizeHistory(bookings []Booking) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(bookings))
	for _, b := range bookings {
		entries = append(entries, HistoryEntry{
			ID:        b.ID,
			Type:      b.Vertical,
			Status:    b.Status,
			Amount:    b.Amount,
			CreatedAt: b.CreatedAt,
			Title:     verticalTitles[b.Vertical],
			Detail:    historyDetail(b),
		})
	}
	return entries
}

// sortHistory orders entries strictly descending by creation time; ties keep
// their current relative order.
func sortHistory(entries []HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

// filterHistory keeps entries of one type; empty filter keeps everything.
// The result is order-independent of when the filter is applied.
func filterHistory(entries []HistoryEntry, t Vertical) []HistoryEntry {
	if t == "" {
		return entries
	}
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func historyDetail(b Booking) string {
	switch b.Vertical {
	case VerticalCab, VerticalLogistics:
		return fmt.Sprintf("%s → %s", b.Pickup.Address, b.Dropoff.Address)
	case VerticalCommerce, VerticalFood:
		return fmt.Sprintf("%d item(s) to %s", len(b.Items), b.Dropoff.Address)
	case VerticalService:
		if len(b.Items) > 0 {
			return b.Items[0].Name
		}
		return b.Note
	case VerticalRental:
		return b.Note
	}
	return ""
}
