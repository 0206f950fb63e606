package geo

import (
	"math"
	"testing"

	"bazaar/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Point{Lat: 25.033, Lng: 121.565},
			b:         types.Point{Lat: 25.033, Lng: 121.565},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "Taipei 101 to Taipei Main Station (~5km)",
			a:         types.Point{Lat: 25.0340, Lng: 121.5645},
			b:         types.Point{Lat: 25.0478, Lng: 121.5170},
			wantKm:    5.2,
			tolerance: 1.0,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			a:         types.Point{Lat: 40.7128, Lng: -74.0060},
			b:         types.Point{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("HaversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	a := types.Point{Lat: 25.0, Lng: 121.0}
	b := types.Point{Lat: 26.0, Lng: 122.0}
	d1 := HaversineKm(a, b)
	d2 := HaversineKm(b, a)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestSortByDistance(t *testing.T) {
	type candidate struct {
		id   string
		dist float64
	}
	items := []candidate{
		{id: "c", dist: 5.0},
		{id: "a", dist: 1.0},
		{id: "b", dist: 3.0},
	}

	SortByDistance(items, func(c candidate) float64 { return c.dist })

	if items[0].id != "a" || items[1].id != "b" || items[2].id != "c" {
		t.Errorf("unexpected sort order: %v", items)
	}
}

func TestSortByDistance_EmptyAndSingle(t *testing.T) {
	var none []float64
	SortByDistance(none, func(f float64) float64 { return f })

	one := []float64{2.0}
	SortByDistance(one, func(f float64) float64 { return f })
	if one[0] != 2.0 {
		t.Errorf("single element sort failed")
	}
}
