// README: Catalog store backed by PostgreSQL.
package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bazaar/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, it *Item) error {
	var owner *string
	if it.OwnerID != nil {
		v := string(*it.OwnerID)
		owner = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO catalog_items (
			id, kind, name, description, price, currency, image_url, owner_id, in_stock, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		string(it.ID),
		string(it.Kind),
		it.Name,
		it.Description,
		it.Price.Amount,
		it.Price.Currency,
		it.ImageURL,
		owner,
		it.InStock,
		it.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Item, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, kind, name, description, price, currency, image_url, owner_id, in_stock, created_at, updated_at
		FROM catalog_items
		WHERE id = $1`, string(id))
	it, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Update rewrites the mutable fields and stamps updated_at.
func (s *Store) Update(ctx context.Context, it *Item) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE catalog_items
		SET name = $1,
		    description = $2,
		    price = $3,
		    currency = $4,
		    image_url = $5,
		    in_stock = $6,
		    updated_at = NOW()
		WHERE id = $7`,
		it.Name,
		it.Description,
		it.Price.Amount,
		it.Price.Currency,
		it.ImageURL,
		it.InStock,
		string(it.ID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Delete(ctx context.Context, id types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM catalog_items WHERE id = $1`, string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListByKind returns one kind's items, optionally restricted to in-stock.
func (s *Store) ListByKind(ctx context.Context, kind Kind, inStockOnly bool) ([]Item, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if inStockOnly {
		rows, err = s.db.Query(ctx, `
			SELECT id, kind, name, description, price, currency, image_url, owner_id, in_stock, created_at, updated_at
			FROM catalog_items
			WHERE kind = $1 AND in_stock
			ORDER BY created_at DESC`, string(kind))
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT id, kind, name, description, price, currency, image_url, owner_id, in_stock, created_at, updated_at
			FROM catalog_items
			WHERE kind = $1
			ORDER BY created_at DESC`, string(kind))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var (
		it    Item
		owner sql.NullString
	)
	err := row.Scan(
		&it.ID, &it.Kind, &it.Name, &it.Description,
		&it.Price.Amount, &it.Price.Currency,
		&it.ImageURL, &owner, &it.InStock, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if owner.Valid {
		id := types.ID(owner.String)
		it.OwnerID = &id
	}
	return &it, nil
}
