// README: Worker service; live presence updates and assignment suggestions.
package worker

import (
	"context"
	"errors"

	"bazaar/internal/geo"
	"bazaar/internal/modules/user"
	"bazaar/internal/types"
)

var ErrBadRequest = errors.New("bad request")

// Directory lists the eligible fulfilment actors for a service type.
// *user.Service implements it.
type Directory interface {
	ActiveWorkers(ctx context.Context, service string) ([]user.Profile, error)
}

type Service struct {
	store     *Store
	directory Directory
}

func NewService(store *Store, directory Directory) *Service {
	return &Service{store: store, directory: directory}
}

// UpdateLocation records a worker's position under its service type.
func (s *Service) UpdateLocation(ctx context.Context, service string, id types.ID, pos types.Point) error {
	if service == "" || id == "" {
		return ErrBadRequest
	}
	return s.store.SetPosition(ctx, service, id, pos)
}

// GoOffline removes a worker from the presence index.
func (s *Service) GoOffline(ctx context.Context, service string, id types.ID) error {
	if service == "" || id == "" {
		return ErrBadRequest
	}
	return s.store.RemovePosition(ctx, service, id)
}

// Suggest returns active workers of the matching service near the origin,
// closest first. Presence tells us who is nearby; the directory tells us who
// is eligible — only the intersection is suggested.
func (s *Service) Suggest(ctx context.Context, service string, origin types.Point, radiusKm float64, limit int) ([]Candidate, error) {
	if service == "" {
		return nil, ErrBadRequest
	}
	if limit <= 0 {
		limit = 10
	}

	eligible, err := s.directory.ActiveWorkers(ctx, service)
	if err != nil {
		return nil, err
	}
	located, err := s.store.Nearby(ctx, service, origin, radiusKm, limit)
	if err != nil {
		return nil, err
	}
	return joinCandidates(eligible, located), nil
}

// joinCandidates intersects the nearby set with the eligible set and orders
// the result closest first.
func joinCandidates(eligible []user.Profile, located []Located) []Candidate {
	names := make(map[types.ID]string, len(eligible))
	for _, p := range eligible {
		names[p.ID] = p.Name
	}

	out := make([]Candidate, 0, len(located))
	for _, l := range located {
		name, ok := names[l.WorkerID]
		if !ok {
			continue
		}
		out = append(out, Candidate{
			WorkerID: l.WorkerID,
			Name:     name,
			Distance: l.Distance,
		})
	}
	geo.SortByDistance(out, func(c Candidate) float64 { return c.Distance })
	return out
}
