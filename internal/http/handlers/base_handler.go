// README: Shared handler utilities (JSON helpers, domain error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bazaar/internal/modules/booking"
	"bazaar/internal/modules/catalog"
	"bazaar/internal/modules/user"
	"bazaar/internal/modules/worker"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module sentinel errors onto HTTP statuses. Unknown
// errors are logged and surfaced as an opaque 500.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrBadRequest),
		errors.Is(err, booking.ErrBadStatus),
		errors.Is(err, booking.ErrUnknownVertical),
		errors.Is(err, booking.ErrNotAssignable),
		errors.Is(err, catalog.ErrBadRequest),
		errors.Is(err, user.ErrBadRequest),
		errors.Is(err, worker.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrInvalidState),
		errors.Is(err, booking.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		zap.L().Error("unhandled request error", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
