// README: Worker presence store backed by Redis GEO sets, one per service type.
package worker

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"bazaar/internal/types"
)

type Store struct {
	redis *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{redis: rdb}
}

func presenceKey(service string) string {
	return fmt.Sprintf("presence:%s", service)
}

// SetPosition records a worker's live position in the service's GEO set.
func (s *Store) SetPosition(ctx context.Context, service string, id types.ID, pos types.Point) error {
	return s.redis.GeoAdd(ctx, presenceKey(service), &redis.GeoLocation{
		Name:      string(id),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

// RemovePosition drops a worker from the presence index (going off shift).
func (s *Store) RemovePosition(ctx context.Context, service string, id types.ID) error {
	return s.redis.ZRem(ctx, presenceKey(service), string(id)).Err()
}

// Nearby returns workers within radiusKm of the origin, closest first.
func (s *Store) Nearby(ctx context.Context, service string, origin types.Point, radiusKm float64, limit int) ([]Located, error) {
	locs, err := s.redis.GeoSearchLocation(ctx, presenceKey(service), &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  origin.Lng,
			Latitude:   origin.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Located, 0, len(locs))
	for _, l := range locs {
		out = append(out, Located{
			WorkerID: types.ID(l.Name),
			Position: types.Point{Lat: l.Latitude, Lng: l.Longitude},
			Distance: l.Dist,
		})
	}
	return out, nil
}
