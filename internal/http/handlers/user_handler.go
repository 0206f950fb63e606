// README: User profile handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaar/internal/http/middleware"
	"bazaar/internal/modules/user"
	"bazaar/internal/types"
)

type UserHandler struct {
	users *user.Service
}

func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

type profileReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Me upserts and returns the caller's profile. Clients call it once after
// sign-in so the directory row exists before any booking does.
func (h *UserHandler) Me(c *gin.Context) {
	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.users.EnsureProfile(c.Request.Context(),
		types.ID(middleware.GetUID(c)), req.Email, req.Name)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

type deviceTokenReq struct {
	Token string `json:"token"`
}

// SetDeviceToken stores the caller's push token for FCM delivery.
func (h *UserHandler) SetDeviceToken(c *gin.Context) {
	var req deviceTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.users.SetDeviceToken(c.Request.Context(),
		types.ID(middleware.GetUID(c)), req.Token)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ok": true})
}
