// README: Booking service; creation, guarded transitions, assignment and dispatch.
package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bazaar/internal/types"
)

var (
	ErrNotFound        = errors.New("booking not found")
	ErrBadRequest      = errors.New("bad request")
	ErrUnknownVertical = errors.New("unknown vertical")
	ErrBadStatus       = errors.New("status not in vertical enum")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrConflict        = errors.New("booking state conflict")
	ErrNotAssignable   = errors.New("vertical has no fulfilment actor")
)

// Pricing quotes a fare for distance-priced verticals (cab, logistics).
type Pricing interface {
	Estimate(ctx context.Context, vertical string, from, to types.Point) (types.Money, error)
}

// CatalogItem is the slice of a catalog record the booking module needs to
// price a line item.
type CatalogItem struct {
	ID      types.ID
	Name    string
	Price   types.Money
	InStock bool
}

// CatalogReader resolves line-item references server-side at creation time.
type CatalogReader interface {
	Item(ctx context.Context, id types.ID) (CatalogItem, error)
}

// Geocoder resolves an address to a coordinate. May be absent.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, error)
}

// Notifier receives committed lifecycle changes for the live mirror and
// push delivery. Failures are the notifier's problem, never the write's.
type Notifier interface {
	BookingChanged(ctx context.Context, b *Booking)
	BookingAssigned(ctx context.Context, b *Booking, assigneeID types.ID)
}

// DispatchSettings fixes the warehouse pickup and flat fee for commerce →
// logistics handover.
type DispatchSettings struct {
	Warehouse types.Place
	Fee       types.Money
}

type Service struct {
	store    *Store
	pricing  Pricing
	catalog  CatalogReader
	geocoder Geocoder
	notifier Notifier
	dispatch DispatchSettings
	currency string
}

func NewService(store *Store, pricing Pricing, catalog CatalogReader, opts ...Option) *Service {
	s := &Service{
		store:    store,
		pricing:  pricing,
		catalog:  catalog,
		currency: "INR",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Option func(*Service)

func WithGeocoder(g Geocoder) Option { return func(s *Service) { s.geocoder = g } }

func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

func WithDispatch(d DispatchSettings) Option { return func(s *Service) { s.dispatch = d } }

func WithCurrency(c string) Option { return func(s *Service) { s.currency = c } }

// ItemRef is a client-supplied catalog reference; the price comes from the
// catalog, not the client.
type ItemRef struct {
	ItemID   types.ID
	Quantity int64
}

type CreateCommand struct {
	Vertical    Vertical
	CustomerID  types.ID
	Pickup      types.Place
	Dropoff     types.Place
	Items       []ItemRef
	MonthlyRent int64
	Note        string
}

// Create writes a new aggregate at the vertical's initial status. The amount
// is fixed here and never recomputed afterwards.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	lc, ok := LifecycleOf(cmd.Vertical)
	if !ok {
		return "", ErrUnknownVertical
	}
	if cmd.CustomerID == "" {
		return "", ErrBadRequest
	}

	pickup, err := s.resolvePlace(ctx, cmd.Pickup)
	if err != nil {
		return "", err
	}
	dropoff, err := s.resolvePlace(ctx, cmd.Dropoff)
	if err != nil {
		return "", err
	}

	amount, items, err := s.priceBooking(ctx, cmd, pickup, dropoff)
	if err != nil {
		return "", err
	}

	now := time.Now()
	b := &Booking{
		ID:         types.NewID(),
		Vertical:   cmd.Vertical,
		CustomerID: cmd.CustomerID,
		Status:     lc.Initial,
		Amount:     amount,
		Pickup:     pickup,
		Dropoff:    dropoff,
		Items:      items,
		Note:       cmd.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return "", err
	}
	s.appendEvent(ctx, b.ID, StatusNone, lc.Initial, "customer", &cmd.CustomerID)
	s.notifyChanged(ctx, b)
	return b.ID, nil
}

func (s *Service) resolvePlace(ctx context.Context, p types.Place) (types.Place, error) {
	if s.geocoder == nil || p.Address == "" || !p.Position.IsZero() {
		return p, nil
	}
	pos, err := s.geocoder.Geocode(ctx, p.Address)
	if err != nil {
		// Geocoding is best effort; the address string remains authoritative.
		zap.L().Warn("geocode failed", zap.String("address", p.Address), zap.Error(err))
		return p, nil
	}
	p.Position = pos
	return p, nil
}

func (s *Service) priceBooking(ctx context.Context, cmd CreateCommand, pickup, dropoff types.Place) (types.Money, []LineItem, error) {
	switch cmd.Vertical {
	case VerticalCab, VerticalLogistics:
		if pickup.Address == "" || dropoff.Address == "" {
			return types.Money{}, nil, ErrBadRequest
		}
		m, err := s.pricing.Estimate(ctx, string(cmd.Vertical), pickup.Position, dropoff.Position)
		if err != nil {
			return types.Money{}, nil, err
		}
		return m, nil, nil

	case VerticalCommerce, VerticalFood, VerticalService:
		if len(cmd.Items) == 0 {
			return types.Money{}, nil, ErrBadRequest
		}
		return s.resolveItems(ctx, cmd.Items)

	case VerticalRental:
		if cmd.MonthlyRent <= 0 {
			return types.Money{}, nil, ErrBadRequest
		}
		return types.Money{Amount: cmd.MonthlyRent, Currency: s.currency}, nil, nil
	}
	return types.Money{}, nil, ErrUnknownVertical
}

// resolveItems fetches the referenced catalog records concurrently (the
// reads are independent, the fan-out only trims latency) and sums the total.
func (s *Service) resolveItems(ctx context.Context, refs []ItemRef) (types.Money, []LineItem, error) {
	items := make([]LineItem, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		if ref.Quantity <= 0 {
			return types.Money{}, nil, ErrBadRequest
		}
		i, ref := i, ref
		g.Go(func() error {
			it, err := s.catalog.Item(ctx, ref.ItemID)
			if err != nil {
				return err
			}
			if !it.InStock {
				return ErrBadRequest
			}
			items[i] = LineItem{
				ItemID:    it.ID,
				Name:      it.Name,
				UnitPrice: it.Price,
				Quantity:  ref.Quantity,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.Money{}, nil, err
	}

	total := types.Money{Currency: s.currency}
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(it.Quantity))
	}
	return total, items, nil
}

type TransitionCommand struct {
	BookingID types.ID
	NewStatus Status
	ActorType string
	ActorID   *types.ID
}

// Transition sets a new status. The value must belong to the vertical's enum
// and the edge must exist in the transition table; the write itself is a CAS
// so concurrent actors cannot interleave.
func (s *Service) Transition(ctx context.Context, cmd TransitionCommand) error {
	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return err
	}
	lc, ok := LifecycleOf(b.Vertical)
	if !ok {
		return ErrUnknownVertical
	}
	if !lc.ValidStatus(cmd.NewStatus) {
		return ErrBadStatus
	}
	if !lc.CanTransition(b.Status, cmd.NewStatus) {
		return ErrInvalidState
	}
	ok, err = s.store.UpdateStatus(ctx, b.ID, b.Status, cmd.NewStatus, b.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.appendEvent(ctx, b.ID, b.Status, cmd.NewStatus, cmd.ActorType, cmd.ActorID)

	b.Status = cmd.NewStatus
	b.StatusVersion++
	s.notifyChanged(ctx, b)
	return nil
}

type AssignCommand struct {
	BookingID  types.ID
	AssigneeID types.ID
	ActorID    *types.ID
}

// Assign binds a fulfilment actor and advances the booking to the vertical's
// assigned status in one conditional write. A booking that already left its
// initial status, or already has an assignee, yields ErrConflict.
func (s *Service) Assign(ctx context.Context, cmd AssignCommand) error {
	if cmd.AssigneeID == "" {
		return ErrBadRequest
	}
	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return err
	}
	lc, ok := LifecycleOf(b.Vertical)
	if !ok {
		return ErrUnknownVertical
	}
	if lc.Assigned == "" {
		return ErrNotAssignable
	}
	if b.Status != lc.Initial || b.AssigneeID != nil {
		return ErrConflict
	}
	ok, err = s.store.Assign(ctx, b.ID, cmd.AssigneeID, lc.Initial, lc.Assigned, b.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.appendEvent(ctx, b.ID, lc.Initial, lc.Assigned, "admin", cmd.ActorID)

	b.Status = lc.Assigned
	b.StatusVersion++
	assignee := cmd.AssigneeID
	b.AssigneeID = &assignee
	s.notifyChanged(ctx, b)
	if s.notifier != nil {
		s.notifier.BookingAssigned(ctx, b, cmd.AssigneeID)
	}
	return nil
}

type DispatchCommand struct {
	OrderID types.ID
	ActorID *types.ID
}

// DispatchLogistics derives a logistics request from an accepted commerce
// order: the new package booking and the order's move to preparing share one
// transaction, so either both are visible or neither is.
func (s *Service) DispatchLogistics(ctx context.Context, cmd DispatchCommand) (types.ID, error) {
	order, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return "", err
	}
	if order.Vertical != VerticalCommerce {
		return "", ErrBadRequest
	}
	if order.Status != StatusAccepted {
		return "", ErrInvalidState
	}

	now := time.Now()
	related := order.ID
	derived := &Booking{
		ID:             types.NewID(),
		Vertical:       VerticalLogistics,
		CustomerID:     order.CustomerID,
		Status:         StatusPending,
		Amount:         s.dispatch.Fee,
		Pickup:         s.dispatch.Warehouse,
		Dropoff:        order.Dropoff,
		Note:           "package",
		RelatedOrderID: &related,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	ok, err := s.store.DispatchTx(ctx, derived, order.ID, StatusAccepted, StatusPreparing, order.StatusVersion)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrConflict
	}

	s.appendEvent(ctx, derived.ID, StatusNone, StatusPending, "system", cmd.ActorID)
	s.appendEvent(ctx, order.ID, StatusAccepted, StatusPreparing, "admin", cmd.ActorID)

	order.Status = StatusPreparing
	order.StatusVersion++
	s.notifyChanged(ctx, derived)
	s.notifyChanged(ctx, order)
	return derived.ID, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Booking, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Events(ctx context.Context, id types.ID) ([]Event, error) {
	return s.store.ListEvents(ctx, id)
}

// Board lists one vertical's bookings for the admin dashboard. A non-empty
// status filter must belong to the vertical's enum.
func (s *Service) Board(ctx context.Context, v Vertical, status Status, limit int) ([]Booking, error) {
	lc, ok := LifecycleOf(v)
	if !ok {
		return nil, ErrUnknownVertical
	}
	if status != "" && !lc.ValidStatus(status) {
		return nil, ErrBadStatus
	}
	return s.store.ListByVertical(ctx, v, status, limit)
}

// Tasks lists the open bookings assigned to a worker.
func (s *Service) Tasks(ctx context.Context, assigneeID types.ID) ([]Booking, error) {
	if assigneeID == "" {
		return nil, ErrBadRequest
	}
	return s.store.ListByAssignee(ctx, assigneeID)
}

// RunPendingExpirer cancels bookings stuck at pending longer than ttl.
func (s *Service) RunPendingExpirer(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ids, err := s.store.ExpirePending(ctx, time.Now().Add(-ttl))
			if err != nil {
				zap.L().Error("expiring pending bookings", zap.Error(err))
				continue
			}
			for _, id := range ids {
				s.appendEvent(ctx, id, StatusPending, StatusCancelled, "system", nil)
				if b, err := s.store.Get(ctx, id); err == nil {
					s.notifyChanged(ctx, b)
				}
			}
			if len(ids) > 0 {
				zap.L().Info("expired pending bookings", zap.Int("count", len(ids)))
			}
		}
	}
}

func (s *Service) appendEvent(ctx context.Context, id types.ID, from, to Status, actorType string, actorID *types.ID) {
	err := s.store.AppendEvent(ctx, &Event{
		BookingID:  id,
		FromStatus: from,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		zap.L().Error("appending booking event", zap.String("booking_id", id.String()), zap.Error(err))
	}
}

func (s *Service) notifyChanged(ctx context.Context, b *Booking) {
	if s.notifier != nil {
		s.notifier.BookingChanged(ctx, b)
	}
}
