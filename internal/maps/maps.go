// Package maps wraps the Google Maps API for geocoding and road distance.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"bazaar/internal/types"
)

type Client struct {
	client *maps.Client
}

// NewClient creates a Maps client with the given API key.
func NewClient(apiKey string) (*Client, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}
	return &Client{client: c}, nil
}

// Geocode resolves an address to its first candidate coordinate.
func (c *Client) Geocode(ctx context.Context, address string) (types.Point, error) {
	results, err := c.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return types.Point{}, fmt.Errorf("geocoding %q: %w", address, err)
	}
	if len(results) == 0 {
		return types.Point{}, fmt.Errorf("no geocoding result for %q", address)
	}
	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// DistanceKm returns the driving distance between two coordinates.
func (c *Client) DistanceKm(ctx context.Context, from, to types.Point) (float64, error) {
	routes, _, err := c.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", from.Lat, from.Lng),
		Destination: fmt.Sprintf("%f,%f", to.Lat, to.Lng),
		Mode:        maps.TravelModeDriving,
	})
	if err != nil {
		return 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, fmt.Errorf("no route found")
	}
	return float64(routes[0].Legs[0].Distance.Meters) / 1000.0, nil
}
