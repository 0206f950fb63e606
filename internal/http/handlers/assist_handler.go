// README: AI assistant handler; summarizes the caller's order history.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaar/internal/ai"
	"bazaar/internal/http/middleware"
	"bazaar/internal/types"
)

type AssistHandler struct {
	bookings  BookingAPI
	assistant ai.Assistant
}

func NewAssistHandler(bookings BookingAPI, assistant ai.Assistant) *AssistHandler {
	return &AssistHandler{bookings: bookings, assistant: assistant}
}

// Summary narrates the caller's recent orders. Returns 503 when no assistant
// is configured.
func (h *AssistHandler) Summary(c *gin.Context) {
	if h.assistant == nil {
		writeError(c, http.StatusServiceUnavailable, "assistant disabled")
		return
	}
	entries, err := h.bookings.History(c.Request.Context(),
		types.ID(middleware.GetUID(c)), "")
	if err != nil {
		writeDomainError(c, err)
		return
	}
	text, err := h.assistant.SummarizeHistory(c.Request.Context(), entries)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"summary": text})
}
