// README: User profile store backed by PostgreSQL.
package user

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

// Upsert creates the profile row on first sight of a UID and refreshes the
// mutable fields afterwards. Role is only written on insert; promotions go
// through SetRole.
func (s *Store) Upsert(ctx context.Context, p *Profile) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, email, name, role, worker_service, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    name = EXCLUDED.name,
		    updated_at = NOW()`,
		string(p.ID), p.Email, p.Name, string(p.Role), p.WorkerService, p.Active,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, name, role, worker_service, active, device_token, created_at, updated_at
		FROM users
		WHERE id = $1`, string(id))

	var (
		p       Profile
		service sql.NullString
		token   sql.NullString
	)
	err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Role, &service, &p.Active, &token, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if service.Valid {
		p.WorkerService = &service.String
	}
	if token.Valid {
		p.DeviceToken = &token.String
	}
	return &p, nil
}

func (s *Store) SetRole(ctx context.Context, id types.ID, role Role, workerService *string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET role = $1, worker_service = $2, updated_at = NOW()
		WHERE id = $3`,
		string(role), workerService, string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) SetActive(ctx context.Context, id types.ID, active bool) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE users SET active = $1, updated_at = NOW() WHERE id = $2`,
		active, string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) SetDeviceToken(ctx context.Context, id types.ID, token string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE users SET device_token = $1, updated_at = NOW() WHERE id = $2`,
		token, string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListActiveWorkers returns active workers offering the given service.
func (s *Store) ListActiveWorkers(ctx context.Context, service string) ([]Profile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, email, name, role, worker_service, active, device_token, created_at, updated_at
		FROM users
		WHERE role = 'worker' AND worker_service = $1 AND active`,
		service)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var (
			p     Profile
			svc   sql.NullString
			token sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Email, &p.Name, &p.Role, &svc, &p.Active, &token, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if svc.Valid {
			p.WorkerService = &svc.String
		}
		if token.Valid {
			p.DeviceToken = &token.String
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
