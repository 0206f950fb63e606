// README: Worker presence and assignment-candidate types.
package worker

import "bazaar/internal/types"

// Located is a worker position returned by the presence index.
type Located struct {
	WorkerID types.ID
	Position types.Point
	Distance float64 // km from the queried origin
}

// Candidate is a suggestion shown in the admin assignment dropdown: an
// eligible worker with its live distance from the booking's pickup.
type Candidate struct {
	WorkerID types.ID `json:"worker_id"`
	Name     string   `json:"name"`
	Distance float64  `json:"distance_km"`
}
