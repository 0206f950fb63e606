// README: User profile documents mirrored from the identity provider.
package user

import (
	"time"

	"bazaar/internal/types"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleWorker   Role = "worker"
	RoleAdmin    Role = "admin"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

// Profile duplicates role/profile data outside the identity provider, keyed
// by the provider's UID. WorkerService is set only for worker profiles.
type Profile struct {
	ID            types.ID
	Email         string
	Name          string
	Role          Role
	WorkerService *string
	Active        bool
	DeviceToken   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
