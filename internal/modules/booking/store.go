// README: Booking store backed by PostgreSQL; CAS status writes and the dispatch transaction.
package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

const bookingColumns = `
	id, vertical, customer_id, assignee_id, status, status_version,
	amount, currency,
	pickup_address, pickup_lat, pickup_lng,
	dropoff_address, dropoff_lat, dropoff_lng,
	items, note, related_order_id, created_at, updated_at`

func (s *Store) Create(ctx context.Context, b *Booking) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return fmt.Errorf("encoding line items: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, vertical, customer_id, assignee_id, status, status_version,
			amount, currency,
			pickup_address, pickup_lat, pickup_lng,
			dropoff_address, dropoff_lat, dropoff_lng,
			items, note, related_order_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8,
			$9, $10, $11,
			$12, $13, $14,
			$15, $16, $17, $18, $18
		)`,
		string(b.ID),
		string(b.Vertical),
		string(b.CustomerID),
		toStringPtr(b.AssigneeID),
		string(b.Status),
		b.StatusVersion,
		b.Amount.Amount,
		b.Amount.Currency,
		b.Pickup.Address, b.Pickup.Position.Lat, b.Pickup.Position.Lng,
		b.Dropoff.Address, b.Dropoff.Position.Lat, b.Dropoff.Position.Lng,
		items,
		b.Note,
		toStringPtr(b.RelatedOrderID),
		b.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, string(id))
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateStatus performs the CAS transition write. It succeeds only when the
// row is still at (from, version); updated_at is stamped server-side.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = $1,
		    status_version = status_version + 1,
		    updated_at = NOW()
		WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Assign is the compound conditional write: assignee and assigned status
// change together, and only while the booking is unassigned at its initial
// status. Racing admins lose on rows-affected.
func (s *Store) Assign(ctx context.Context, id types.ID, assignee types.ID, initial, assigned Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET assignee_id = $1,
		    status = $2,
		    status_version = status_version + 1,
		    updated_at = NOW()
		WHERE id = $3 AND status = $4 AND assignee_id IS NULL AND status_version = $5`,
		string(assignee), string(assigned), string(id), string(initial), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// DispatchTx inserts the derived logistics booking and advances the
// originating commerce order in one transaction. Both writes commit or
// neither is visible; a lost CAS on the order rolls the insert back.
func (s *Store) DispatchTx(ctx context.Context, derived *Booking, orderID types.ID, from, to Status, version int) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	items, err := json.Marshal(derived.Items)
	if err != nil {
		return false, fmt.Errorf("encoding line items: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO bookings (
			id, vertical, customer_id, assignee_id, status, status_version,
			amount, currency,
			pickup_address, pickup_lat, pickup_lng,
			dropoff_address, dropoff_lat, dropoff_lng,
			items, note, related_order_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, NULL, $4, 0,
			$5, $6,
			$7, $8, $9,
			$10, $11, $12,
			$13, $14, $15, $16, $16
		)`,
		string(derived.ID),
		string(derived.Vertical),
		string(derived.CustomerID),
		string(derived.Status),
		derived.Amount.Amount,
		derived.Amount.Currency,
		derived.Pickup.Address, derived.Pickup.Position.Lat, derived.Pickup.Position.Lng,
		derived.Dropoff.Address, derived.Dropoff.Position.Lat, derived.Dropoff.Position.Lng,
		items,
		derived.Note,
		toStringPtr(derived.RelatedOrderID),
		derived.CreatedAt,
	); err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = $1,
		    status_version = status_version + 1,
		    updated_at = NOW()
		WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to), string(orderID), string(from), version,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// ListByCustomer returns one vertical's aggregates for a customer, newest first.
func (s *Store) ListByCustomer(ctx context.Context, v Vertical, customerID types.ID) ([]Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE vertical = $1 AND customer_id = $2
		 ORDER BY created_at DESC`,
		string(v), string(customerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListByVertical feeds the admin dashboard; status filter is optional.
func (s *Store) ListByVertical(ctx context.Context, v Vertical, status Status, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = 100
	}
	var (
		rows pgx.Rows
		err  error
	)
	if status == "" {
		rows, err = s.db.Query(ctx,
			`SELECT `+bookingColumns+`
			 FROM bookings
			 WHERE vertical = $1
			 ORDER BY created_at DESC
			 LIMIT $2`,
			string(v), limit)
	} else {
		rows, err = s.db.Query(ctx,
			`SELECT `+bookingColumns+`
			 FROM bookings
			 WHERE vertical = $1 AND status = $2
			 ORDER BY created_at DESC
			 LIMIT $3`,
			string(v), string(status), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListByAssignee returns a worker's open tasks (terminal states excluded).
func (s *Store) ListByAssignee(ctx context.Context, assigneeID types.ID) ([]Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE assignee_id = $1
		   AND status NOT IN ('completed', 'delivered', 'cancelled')
		 ORDER BY created_at DESC`,
		string(assigneeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO booking_events (
			booking_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.BookingID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		toStringPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

// ListEvents returns a booking's audit trail in append order.
func (s *Store) ListEvents(ctx context.Context, bookingID types.ID) ([]Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, booking_id, from_status, to_status, actor_type, actor_id, created_at
		FROM booking_events
		WHERE booking_id = $1
		ORDER BY id`,
		string(bookingID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var actorID sql.NullString
		if err := rows.Scan(&e.ID, &e.BookingID, &e.FromStatus, &e.ToStatus, &e.ActorType, &actorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		if actorID.Valid {
			id := types.ID(actorID.String)
			e.ActorID = &id
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ExpirePending cancels pending bookings created before the cutoff and
// returns the affected ids so events can be appended.
func (s *Store) ExpirePending(ctx context.Context, cutoff time.Time) ([]types.ID, error) {
	rows, err := s.db.Query(ctx, `
		UPDATE bookings
		SET status = 'cancelled',
		    status_version = status_version + 1,
		    updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1
		RETURNING id`,
		cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []types.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, types.ID(id))
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*Booking, error) {
	var (
		b         Booking
		assignee  sql.NullString
		related   sql.NullString
		itemsJSON []byte
	)
	err := row.Scan(
		&b.ID, &b.Vertical, &b.CustomerID, &assignee, &b.Status, &b.StatusVersion,
		&b.Amount.Amount, &b.Amount.Currency,
		&b.Pickup.Address, &b.Pickup.Position.Lat, &b.Pickup.Position.Lng,
		&b.Dropoff.Address, &b.Dropoff.Position.Lat, &b.Dropoff.Position.Lng,
		&itemsJSON, &b.Note, &related, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assignee.Valid {
		id := types.ID(assignee.String)
		b.AssigneeID = &id
	}
	if related.Valid {
		id := types.ID(related.String)
		b.RelatedOrderID = &id
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &b.Items); err != nil {
			return nil, fmt.Errorf("decoding line items: %w", err)
		}
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
