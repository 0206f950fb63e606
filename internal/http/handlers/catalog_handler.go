// README: Catalog handlers; public listing plus admin CRUD.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaar/internal/modules/catalog"
	"bazaar/internal/types"
)

type CatalogHandler struct {
	catalog  *catalog.Service
	currency string
}

func NewCatalogHandler(svc *catalog.Service, currency string) *CatalogHandler {
	return &CatalogHandler{catalog: svc, currency: currency}
}

// List returns in-stock items of one kind. Admins see out-of-stock rows too
// via ?all=true.
func (h *CatalogHandler) List(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context(),
		catalog.Kind(c.Param("kind")),
		c.Query("all") != "true",
	)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"items": items})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	it, err := h.catalog.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, it)
}

type catalogItemReq struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url"`
	InStock     *bool  `json:"in_stock"`
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req catalogItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.catalog.Create(c.Request.Context(), catalog.CreateCommand{
		Kind:        catalog.Kind(req.Kind),
		Name:        req.Name,
		Description: req.Description,
		Price:       types.Money{Amount: req.Price, Currency: h.currency},
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"item_id": id})
}

func (h *CatalogHandler) Update(c *gin.Context) {
	var req catalogItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	err := h.catalog.Update(c.Request.Context(), catalog.UpdateCommand{
		ID:          types.ID(c.Param("id")),
		Name:        req.Name,
		Description: req.Description,
		Price:       types.Money{Amount: req.Price, Currency: h.currency},
		ImageURL:    req.ImageURL,
		InStock:     inStock,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ok": true})
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ok": true})
}
