// Package menuapi exposes the menu catalog and search over HTTP.
package menuapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/menu"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/modules/respond"
	"github.com/fayzdev/fayz-go/internal/storage"
)

// ModuleName identifies this module in logs and metrics.
const ModuleName = "menu"

// Handler serves menu endpoints.
type Handler struct {
	menu    *menu.Service
	metrics *metrics.Metrics
}

// NewHandler creates a menu handler.
func NewHandler(menuSvc *menu.Service, m *metrics.Metrics) *Handler {
	return &Handler{
		menu:    menuSvc,
		metrics: m,
	}
}

// RegisterRoutes mounts the public menu endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/menu", h.list)
	rg.GET("/menu/search", h.search)
}

// RegisterAdminRoutes mounts catalog management endpoints; the caller
// wraps the group in auth.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PUT("/menu/items", h.upsert)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.menu.List(c.Request.Context())
	if err != nil {
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) search(c *gin.Context) {
	results, err := h.menu.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type upsertRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	SortOrder   int     `json:"sort_order"`
}

func (h *Handler) upsert(c *gin.Context) {
	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, h.metrics, ModuleName,
			&domerrors.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}

	err := h.menu.Upsert(c.Request.Context(), &storage.MenuItem{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Available:   req.Available,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}
