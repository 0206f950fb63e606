// README: Admin handlers; vertical boards, assignment, dispatch, candidates.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bazaar/internal/http/middleware"
	"bazaar/internal/modules/booking"
	"bazaar/internal/modules/user"
	"bazaar/internal/modules/worker"
	"bazaar/internal/types"
)

type AdminHandler struct {
	bookings BookingAPI
	workers  *worker.Service
	users    *user.Service
	radiusKm float64
}

func NewAdminHandler(bookings BookingAPI, workers *worker.Service, users *user.Service, radiusKm float64) *AdminHandler {
	return &AdminHandler{bookings: bookings, workers: workers, users: users, radiusKm: radiusKm}
}

// Board lists one vertical's bookings, optionally filtered by ?status=.
func (h *AdminHandler) Board(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.bookings.Board(c.Request.Context(),
		booking.Vertical(c.Param("vertical")),
		booking.Status(c.Query("status")),
		limit,
	)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"bookings": out})
}

type assignReq struct {
	AssigneeID string `json:"assignee_id"`
}

func (h *AdminHandler) Assign(c *gin.Context) {
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	actor := types.ID(middleware.GetUID(c))
	err := h.bookings.Assign(c.Request.Context(), booking.AssignCommand{
		BookingID:  types.ID(c.Param("id")),
		AssigneeID: types.ID(req.AssigneeID),
		ActorID:    &actor,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"assigned": req.AssigneeID})
}

type statusReq struct {
	Status string `json:"status"`
}

// SetStatus moves a booking along its lifecycle on behalf of an admin.
func (h *AdminHandler) SetStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	actor := types.ID(middleware.GetUID(c))
	err := h.bookings.Transition(c.Request.Context(), booking.TransitionCommand{
		BookingID: types.ID(c.Param("id")),
		NewStatus: booking.Status(req.Status),
		ActorType: "admin",
		ActorID:   &actor,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": req.Status})
}

// Dispatch derives a logistics booking from an accepted commerce order.
func (h *AdminHandler) Dispatch(c *gin.Context) {
	actor := types.ID(middleware.GetUID(c))
	id, err := h.bookings.DispatchLogistics(c.Request.Context(), booking.DispatchCommand{
		OrderID: types.ID(c.Param("id")),
		ActorID: &actor,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"logistics_id": id})
}

// Candidates suggests nearby eligible workers for an unassigned booking,
// keyed on the booking's vertical and pickup position.
func (h *AdminHandler) Candidates(c *gin.Context) {
	b, err := h.bookings.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.workers.Suggest(c.Request.Context(),
		string(b.Vertical), b.Pickup.Position, h.radiusKm, limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"candidates": out})
}

type promoteReq struct {
	Role          string `json:"role"`
	WorkerService string `json:"worker_service"`
}

type activeReq struct {
	Active *bool `json:"active"`
}

// SetActive toggles a profile on or off; inactive workers drop out of
// assignment suggestions.
func (h *AdminHandler) SetActive(c *gin.Context) {
	var req activeReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.users.SetActive(c.Request.Context(), types.ID(c.Param("id")), *req.Active); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"active": *req.Active})
}

// Promote changes a user's role. Workers name the vertical they fulfil.
func (h *AdminHandler) Promote(c *gin.Context) {
	var req promoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.users.Promote(c.Request.Context(),
		types.ID(c.Param("id")), user.Role(req.Role), req.WorkerService)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"role": req.Role})
}
