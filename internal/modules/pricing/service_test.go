package pricing

import (
	"context"
	"errors"
	"testing"

	"bazaar/internal/types"
)

type fakeTariffs struct {
	tariffs map[string]Tariff
}

func (f *fakeTariffs) Tariff(_ context.Context, vertical string) (Tariff, error) {
	t, ok := f.tariffs[vertical]
	if !ok {
		return Tariff{}, ErrNoTariff
	}
	return t, nil
}

type fixedDistance struct {
	km  float64
	err error
}

func (f *fixedDistance) DistanceKm(_ context.Context, _, _ types.Point) (float64, error) {
	return f.km, f.err
}

var cabTariff = Tariff{Vertical: "cab", Base: 5000, PerKm: 1200, Currency: "INR"}

func TestEstimate_BasePlusDistance(t *testing.T) {
	svc := NewService(
		&fakeTariffs{tariffs: map[string]Tariff{"cab": cabTariff}},
		&fixedDistance{km: 10},
	)

	got, err := svc.Estimate(context.Background(), "cab", types.Point{}, types.Point{})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if want := int64(5000 + 10*1200); got.Amount != want {
		t.Errorf("amount = %d, want %d", got.Amount, want)
	}
	if got.Currency != "INR" {
		t.Errorf("currency = %q, want INR", got.Currency)
	}
}

func TestEstimate_ZeroDistanceIsBaseFare(t *testing.T) {
	svc := NewService(
		&fakeTariffs{tariffs: map[string]Tariff{"cab": cabTariff}},
		&fixedDistance{km: 0},
	)

	got, err := svc.Estimate(context.Background(), "cab", types.Point{}, types.Point{})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if got.Amount != cabTariff.Base {
		t.Errorf("amount = %d, want base %d", got.Amount, cabTariff.Base)
	}
}

func TestEstimate_RoundsUpFractionalKm(t *testing.T) {
	svc := NewService(
		&fakeTariffs{tariffs: map[string]Tariff{"cab": cabTariff}},
		&fixedDistance{km: 2.5},
	)

	got, err := svc.Estimate(context.Background(), "cab", types.Point{}, types.Point{})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if want := int64(5000 + 3000); got.Amount != want {
		t.Errorf("amount = %d, want %d", got.Amount, want)
	}
}

func TestEstimate_HaversineFallback(t *testing.T) {
	// Provider failure falls back to the great-circle distance, which for
	// identical points is zero.
	svc := NewService(
		&fakeTariffs{tariffs: map[string]Tariff{"cab": cabTariff}},
		&fixedDistance{err: errors.New("maps unavailable")},
	)

	p := types.Point{Lat: 25.033, Lng: 121.565}
	got, err := svc.Estimate(context.Background(), "cab", p, p)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if got.Amount != cabTariff.Base {
		t.Errorf("amount = %d, want base %d", got.Amount, cabTariff.Base)
	}
}

func TestEstimate_UnknownVertical(t *testing.T) {
	svc := NewService(&fakeTariffs{tariffs: map[string]Tariff{}}, nil)

	_, err := svc.Estimate(context.Background(), "rental", types.Point{}, types.Point{})
	if !errors.Is(err, ErrNoTariff) {
		t.Fatalf("expected ErrNoTariff, got %v", err)
	}
}
