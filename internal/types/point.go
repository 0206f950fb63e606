// README: Geographic primitives.
package types

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// Place is a human-readable address with its resolved coordinate.
type Place struct {
	Address  string `json:"address"`
	Position Point  `json:"position"`
}
