// README: Worker handlers; task list, status progress, presence updates.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaar/internal/http/middleware"
	"bazaar/internal/modules/booking"
	"bazaar/internal/modules/user"
	"bazaar/internal/modules/worker"
	"bazaar/internal/types"
)

type WorkerHandler struct {
	bookings BookingAPI
	workers  *worker.Service
	users    *user.Service
}

func NewWorkerHandler(bookings BookingAPI, workers *worker.Service, users *user.Service) *WorkerHandler {
	return &WorkerHandler{bookings: bookings, workers: workers, users: users}
}

// Tasks lists the caller's open assignments.
func (h *WorkerHandler) Tasks(c *gin.Context) {
	out, err := h.bookings.Tasks(c.Request.Context(), types.ID(middleware.GetUID(c)))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"tasks": out})
}

// SetStatus lets a worker advance a booking assigned to them.
func (h *WorkerHandler) SetStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	uid := types.ID(middleware.GetUID(c))
	b, err := h.bookings.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if b.AssigneeID == nil || *b.AssigneeID != uid {
		writeError(c, http.StatusForbidden, "not your task")
		return
	}

	err = h.bookings.Transition(c.Request.Context(), booking.TransitionCommand{
		BookingID: b.ID,
		NewStatus: booking.Status(req.Status),
		ActorType: "worker",
		ActorID:   &uid,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": req.Status})
}

type locationReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocation records the caller's position under their worker service.
func (h *WorkerHandler) UpdateLocation(c *gin.Context) {
	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	service, uid, ok := h.workerService(c)
	if !ok {
		return
	}
	err := h.workers.UpdateLocation(c.Request.Context(), service, uid,
		types.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ok": true})
}

// GoOffline drops the caller from the presence index.
func (h *WorkerHandler) GoOffline(c *gin.Context) {
	service, uid, ok := h.workerService(c)
	if !ok {
		return
	}
	if err := h.workers.GoOffline(c.Request.Context(), service, uid); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ok": true})
}

// workerService looks up the caller's fulfilment service from their profile.
func (h *WorkerHandler) workerService(c *gin.Context) (string, types.ID, bool) {
	uid := types.ID(middleware.GetUID(c))
	p, err := h.users.Get(c.Request.Context(), uid)
	if err != nil {
		writeDomainError(c, err)
		return "", "", false
	}
	if p.WorkerService == nil || *p.WorkerService == "" {
		writeError(c, http.StatusBadRequest, "profile has no worker service")
		return "", "", false
	}
	return *p.WorkerService, uid, true
}
