// README: User profile service.
package user

import (
	"context"
	"errors"

	"bazaar/internal/types"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrBadRequest = errors.New("bad request")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// EnsureProfile creates or refreshes the profile row for an authenticated
// UID. New profiles start as active customers.
func (s *Service) EnsureProfile(ctx context.Context, id types.ID, email, name string) (*Profile, error) {
	if id == "" {
		return nil, ErrBadRequest
	}
	p := &Profile{
		ID:     id,
		Email:  email,
		Name:   name,
		Role:   RoleCustomer,
		Active: true,
	}
	if err := s.store.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Profile, error) {
	return s.store.Get(ctx, id)
}

// Promote changes a profile's role; workers must name the service they
// fulfil.
func (s *Service) Promote(ctx context.Context, id types.ID, role Role, workerService string) error {
	if !ValidRole(role) {
		return ErrBadRequest
	}
	var svc *string
	if role == RoleWorker {
		if workerService == "" {
			return ErrBadRequest
		}
		svc = &workerService
	}
	ok, err := s.store.SetRole(ctx, id, role, svc)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) SetActive(ctx context.Context, id types.ID, active bool) error {
	ok, err := s.store.SetActive(ctx, id, active)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) SetDeviceToken(ctx context.Context, id types.ID, token string) error {
	if token == "" {
		return ErrBadRequest
	}
	ok, err := s.store.SetDeviceToken(ctx, id, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ActiveWorkers(ctx context.Context, service string) ([]Profile, error) {
	if service == "" {
		return nil, ErrBadRequest
	}
	return s.store.ListActiveWorkers(ctx, service)
}
