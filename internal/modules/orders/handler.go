// Package orders exposes a session's order history over HTTP.
package orders

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/modules/respond"
	"github.com/fayzdev/fayz-go/internal/storage"
)

// ModuleName identifies this module in logs and metrics.
const ModuleName = "orders"

// historyLimit caps the order history response.
const historyLimit = 20

// Handler serves order history endpoints.
type Handler struct {
	repo    storage.OrderRepository
	metrics *metrics.Metrics
}

// NewHandler creates an orders handler.
func NewHandler(repo storage.OrderRepository, m *metrics.Metrics) *Handler {
	return &Handler{
		repo:    repo,
		metrics: m,
	}
}

// RegisterRoutes mounts the order endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders", h.list)
	rg.GET("/orders/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	sessionID := respond.SessionID(c)
	list, err := h.repo.ListOrdersBySession(c.Request.Context(), sessionID, historyLimit)
	if err != nil {
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) get(c *gin.Context) {
	order, err := h.repo.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}

	// Orders are private to the session that placed them
	if order.SessionID != respond.SessionID(c) {
		respond.Error(c, h.metrics, ModuleName, domerrors.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
