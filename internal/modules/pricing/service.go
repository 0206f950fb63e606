// README: Pricing service; fare = base + distance × rate.
package pricing

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"bazaar/internal/geo"
	"bazaar/internal/types"
)

var ErrNoTariff = errors.New("no tariff for vertical")

// TariffSource supplies the per-vertical tariff. *Store implements it.
type TariffSource interface {
	Tariff(ctx context.Context, vertical string) (Tariff, error)
}

// DistanceProvider returns road distance in kilometres. May be absent, in
// which case the great-circle distance is used.
type DistanceProvider interface {
	DistanceKm(ctx context.Context, from, to types.Point) (float64, error)
}

type Service struct {
	tariffs  TariffSource
	distance DistanceProvider
}

func NewService(tariffs TariffSource, distance DistanceProvider) *Service {
	return &Service{tariffs: tariffs, distance: distance}
}

// Estimate quotes base + distance × per-km rate, rounded up to the next
// minor unit. The quote is written into the aggregate at creation and never
// recomputed.
func (s *Service) Estimate(ctx context.Context, vertical string, from, to types.Point) (types.Money, error) {
	t, err := s.tariffs.Tariff(ctx, vertical)
	if err != nil {
		return types.Money{}, err
	}

	km := geo.HaversineKm(from, to)
	if s.distance != nil {
		if road, err := s.distance.DistanceKm(ctx, from, to); err == nil {
			km = road
		} else {
			zap.L().Warn("road distance lookup failed, using haversine", zap.Error(err))
		}
	}

	amount := t.Base + int64(math.Ceil(km*float64(t.PerKm)))
	return types.Money{Amount: amount, Currency: t.Currency}, nil
}
