// README: Catalog entities (products, dishes, restaurants, properties, services).
package catalog

import (
	"time"

	"bazaar/internal/types"
)

type Kind string

const (
	KindProduct    Kind = "product"
	KindDish       Kind = "dish"
	KindRestaurant Kind = "restaurant"
	KindProperty   Kind = "property"
	KindService    Kind = "service"
)

func ValidKind(k Kind) bool {
	switch k {
	case KindProduct, KindDish, KindRestaurant, KindProperty, KindService:
		return true
	}
	return false
}

// Item is one catalog record. Unlike bookings, catalog entities can be
// deleted outright.
type Item struct {
	ID          types.ID
	Kind        Kind
	Name        string
	Description string
	Price       types.Money
	ImageURL    string
	OwnerID     *types.ID
	InStock     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
