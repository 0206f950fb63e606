// README: Catalog service; CRUD over marketplace listings.
package catalog

import (
	"context"
	"errors"
	"time"

	"bazaar/internal/types"
)

var (
	ErrNotFound   = errors.New("catalog item not found")
	ErrBadRequest = errors.New("bad request")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type CreateCommand struct {
	Kind        Kind
	Name        string
	Description string
	Price       types.Money
	ImageURL    string
	OwnerID     *types.ID
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if !ValidKind(cmd.Kind) || cmd.Name == "" {
		return "", ErrBadRequest
	}
	if cmd.Price.Amount < 0 {
		return "", ErrBadRequest
	}
	now := time.Now()
	it := &Item{
		ID:          types.NewID(),
		Kind:        cmd.Kind,
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		ImageURL:    cmd.ImageURL,
		OwnerID:     cmd.OwnerID,
		InStock:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, it); err != nil {
		return "", err
	}
	return it.ID, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Item, error) {
	return s.store.Get(ctx, id)
}

type UpdateCommand struct {
	ID          types.ID
	Name        string
	Description string
	Price       types.Money
	ImageURL    string
	InStock     bool
}

func (s *Service) Update(ctx context.Context, cmd UpdateCommand) error {
	if cmd.Name == "" || cmd.Price.Amount < 0 {
		return ErrBadRequest
	}
	it, err := s.store.Get(ctx, cmd.ID)
	if err != nil {
		return err
	}
	it.Name = cmd.Name
	it.Description = cmd.Description
	it.Price = cmd.Price
	it.ImageURL = cmd.ImageURL
	it.InStock = cmd.InStock
	ok, err := s.store.Update(ctx, it)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes a catalog record. Bookings are never deleted; catalog
// entities are the only deletable data in the system.
func (s *Service) Delete(ctx context.Context, id types.ID) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) List(ctx context.Context, kind Kind, inStockOnly bool) ([]Item, error) {
	if !ValidKind(kind) {
		return nil, ErrBadRequest
	}
	return s.store.ListByKind(ctx, kind, inStockOnly)
}
