// README: Customer-facing booking handlers (create, detail, cancel, events).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaar/internal/http/middleware"
	"bazaar/internal/modules/booking"
	"bazaar/internal/types"
)

// BookingAPI is the slice of the booking service the HTTP layer uses.
type BookingAPI interface {
	Create(ctx context.Context, cmd booking.CreateCommand) (types.ID, error)
	Get(ctx context.Context, id types.ID) (*booking.Booking, error)
	Events(ctx context.Context, id types.ID) ([]booking.Event, error)
	Transition(ctx context.Context, cmd booking.TransitionCommand) error
	Assign(ctx context.Context, cmd booking.AssignCommand) error
	DispatchLogistics(ctx context.Context, cmd booking.DispatchCommand) (types.ID, error)
	History(ctx context.Context, customerID types.ID, typeFilter booking.Vertical) ([]booking.HistoryEntry, error)
	Board(ctx context.Context, v booking.Vertical, status booking.Status, limit int) ([]booking.Booking, error)
	Tasks(ctx context.Context, assigneeID types.ID) ([]booking.Booking, error)
}

type BookingHandler struct {
	bookings BookingAPI
}

func NewBookingHandler(bookings BookingAPI) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type placeReq struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

func (p placeReq) toPlace() types.Place {
	return types.Place{Address: p.Address, Position: types.Point{Lat: p.Lat, Lng: p.Lng}}
}

type itemReq struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

type createBookingReq struct {
	Pickup      placeReq  `json:"pickup"`
	Dropoff     placeReq  `json:"dropoff"`
	Items       []itemReq `json:"items"`
	MonthlyRent int64     `json:"monthly_rent"`
	Note        string    `json:"note"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	items := make([]booking.ItemRef, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, booking.ItemRef{ItemID: types.ID(it.ItemID), Quantity: it.Quantity})
	}

	id, err := h.bookings.Create(c.Request.Context(), booking.CreateCommand{
		Vertical:    booking.Vertical(c.Param("vertical")),
		CustomerID:  types.ID(middleware.GetUID(c)),
		Pickup:      req.Pickup.toPlace(),
		Dropoff:     req.Dropoff.toPlace(),
		Items:       items,
		MonthlyRent: req.MonthlyRent,
		Note:        req.Note,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"booking_id": id})
}

func (h *BookingHandler) Get(c *gin.Context) {
	b, ok := h.loadVisible(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, bookingView(b))
}

// Cancel lets a customer cancel their own booking; the transition table
// decides whether the current state still allows it.
func (h *BookingHandler) Cancel(c *gin.Context) {
	b, err := h.bookings.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	uid := types.ID(middleware.GetUID(c))
	if b.CustomerID != uid {
		writeError(c, http.StatusForbidden, "not your booking")
		return
	}
	err = h.bookings.Transition(c.Request.Context(), booking.TransitionCommand{
		BookingID: b.ID,
		NewStatus: booking.StatusCancelled,
		ActorType: "customer",
		ActorID:   &uid,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": booking.StatusCancelled})
}

// History returns the caller's bookings across every vertical, newest first.
// An optional ?type= query narrows it to one vertical.
func (h *BookingHandler) History(c *gin.Context) {
	entries, err := h.bookings.History(c.Request.Context(),
		types.ID(middleware.GetUID(c)),
		booking.Vertical(c.Query("type")),
	)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"orders": entries})
}

func (h *BookingHandler) Events(c *gin.Context) {
	if _, ok := h.loadVisible(c); !ok {
		return
	}
	events, err := h.bookings.Events(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"events": events})
}

// loadVisible fetches the booking and enforces that the caller is the
// customer, the assignee, or an admin.
func (h *BookingHandler) loadVisible(c *gin.Context) (*booking.Booking, bool) {
	b, err := h.bookings.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return nil, false
	}
	uid := types.ID(middleware.GetUID(c))
	if b.CustomerID == uid || middleware.GetRole(c) == "admin" {
		return b, true
	}
	if b.AssigneeID != nil && *b.AssigneeID == uid {
		return b, true
	}
	writeError(c, http.StatusForbidden, "not your booking")
	return nil, false
}

func bookingView(b *booking.Booking) gin.H {
	v := gin.H{
		"id":         b.ID,
		"vertical":   b.Vertical,
		"status":     b.Status,
		"amount":     b.Amount,
		"pickup":     b.Pickup,
		"dropoff":    b.Dropoff,
		"items":      b.Items,
		"note":       b.Note,
		"created_at": b.CreatedAt,
		"updated_at": b.UpdatedAt,
	}
	if b.AssigneeID != nil {
		v["assignee_id"] = *b.AssigneeID
	}
	if b.RelatedOrderID != nil {
		v["related_order_id"] = *b.RelatedOrderID
	}
	return v
}
