// README: Image upload handler.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaar/internal/media"
)

const maxUploadBytes = 10 << 20

type MediaHandler struct {
	media *media.Service
}

func NewMediaHandler(svc *media.Service) *MediaHandler {
	return &MediaHandler{media: svc}
}

// Upload accepts one multipart image under the "image" field and returns its
// public URL.
func (h *MediaHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		writeError(c, http.StatusBadRequest, "missing image field")
		return
	}
	if fh.Size > maxUploadBytes {
		writeError(c, http.StatusBadRequest, "image too large")
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "unreadable upload")
		return
	}
	defer f.Close()

	url, err := h.media.Upload(c.Request.Context(),
		fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		if errors.Is(err, media.ErrNoBucket) {
			writeError(c, http.StatusServiceUnavailable, "uploads disabled")
			return
		}
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"url": url})
}
