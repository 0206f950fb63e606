// README: Tariff store backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Tariff(ctx context.Context, vertical string) (Tariff, error) {
	row := s.db.QueryRow(ctx, `
		SELECT vertical, base, per_km, currency
		FROM tariffs
		WHERE vertical = $1`, vertical)

	var t Tariff
	err := row.Scan(&t.Vertical, &t.Base, &t.PerKm, &t.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tariff{}, ErrNoTariff
	}
	if err != nil {
		return Tariff{}, err
	}
	return t, nil
}
