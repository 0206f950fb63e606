// README: Booking aggregate, vertical registry and status transition tables.
package booking

import (
	"time"

	"bazaar/internal/types"
)

// Vertical is one of the six service lines. Each vertical carries its own
// status enum but shares the aggregate shape and lifecycle machinery.
type Vertical string

const (
	VerticalCab       Vertical = "cab"
	VerticalCommerce  Vertical = "commerce"
	VerticalFood      Vertical = "food"
	VerticalRental    Vertical = "rental"
	VerticalService   Vertical = "service"
	VerticalLogistics Vertical = "logistics"
)

// Verticals returns every service line in a fixed order.
func Verticals() []Vertical {
	return []Vertical{
		VerticalCab,
		VerticalCommerce,
		VerticalFood,
		VerticalRental,
		VerticalService,
		VerticalLogistics,
	}
}

type Status string

const (
	StatusNone       Status = "none"
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusOngoing    Status = "ongoing"
	StatusCompleted  Status = "completed"
	StatusPreparing  Status = "preparing"
	StatusReady      Status = "ready"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusAssigned   Status = "assigned"
	StatusPickedUp   Status = "pickedup"
	StatusInquiry    Status = "inquiry"
	StatusConfirmed  Status = "confirmed"
	StatusActive     Status = "active"
	StatusCancelled  Status = "cancelled"
)

// Lifecycle describes one vertical's state flow: the entry status, the
// status written by assignment (empty when the vertical has no fulfilment
// actor) and the allowed transition edges.
type Lifecycle struct {
	Initial     Status
	Assigned    Status
	Transitions map[Status][]Status
}

// chain builds a linear forward flow with cancellation reachable from every
// non-terminal state. The last state and cancelled have no outgoing edges.
func chain(states ...Status) map[Status][]Status {
	t := make(map[Status][]Status, len(states))
	for i, s := range states {
		if i == len(states)-1 {
			t[s] = nil
			continue
		}
		t[s] = []Status{states[i+1], StatusCancelled}
	}
	t[StatusCancelled] = nil
	return t
}

var lifecycles = map[Vertical]Lifecycle{
	VerticalCab: {
		Initial:     StatusPending,
		Assigned:    StatusAccepted,
		Transitions: chain(StatusPending, StatusAccepted, StatusOngoing, StatusCompleted),
	},
	VerticalCommerce: {
		Initial:     StatusPending,
		Assigned:    StatusAccepted,
		Transitions: chain(StatusPending, StatusAccepted, StatusPreparing, StatusDelivering, StatusDelivered),
	},
	VerticalFood: {
		Initial:     StatusPending,
		Assigned:    StatusAccepted,
		Transitions: chain(StatusPending, StatusAccepted, StatusPreparing, StatusReady, StatusDelivering, StatusDelivered),
	},
	VerticalLogistics: {
		Initial:     StatusPending,
		Assigned:    StatusAssigned,
		Transitions: chain(StatusPending, StatusAssigned, StatusPickedUp, StatusDelivering, StatusDelivered),
	},
	VerticalService: {
		Initial:     StatusPending,
		Assigned:    StatusAssigned,
		Transitions: chain(StatusPending, StatusAssigned, StatusOngoing, StatusCompleted),
	},
	VerticalRental: {
		Initial:     StatusInquiry,
		Transitions: chain(StatusInquiry, StatusConfirmed, StatusActive, StatusCompleted),
	},
}

// LifecycleOf returns the lifecycle definition for a vertical.
func LifecycleOf(v Vertical) (Lifecycle, bool) {
	l, ok := lifecycles[v]
	return l, ok
}

// ValidStatus reports whether s is a member of this vertical's enum.
func (l Lifecycle) ValidStatus(s Status) bool {
	_, ok := l.Transitions[s]
	return ok
}

// CanTransition reports whether the edge from → to exists in the table.
func (l Lifecycle) CanTransition(from, to Status) bool {
	for _, s := range l.Transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// LineItem is a priced catalog reference snapshotted into the aggregate at
// creation time. Unit prices are resolved server-side, never trusted from
// the client.
type LineItem struct {
	ItemID    types.ID    `json:"item_id"`
	Name      string      `json:"name"`
	UnitPrice types.Money `json:"unit_price"`
	Quantity  int64       `json:"quantity"`
}

// Booking is the canonical record of one customer request in any vertical.
type Booking struct {
	ID             types.ID
	Vertical       Vertical
	CustomerID     types.ID
	AssigneeID     *types.ID
	Status         Status
	StatusVersion  int
	Amount         types.Money
	Pickup         types.Place
	Dropoff        types.Place
	Items          []LineItem
	Note           string
	RelatedOrderID *types.ID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Event is one row of the append-only lifecycle audit trail.
type Event struct {
	ID         int64
	BookingID  types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}
