// Package notifications exposes the per-session toast list over HTTP so
// clients can poll active toasts and dismiss them early.
package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/modules/respond"
	"github.com/fayzdev/fayz-go/internal/notify"
)

// ModuleName identifies this module in logs and metrics.
const ModuleName = "notifications"

// Handler serves notification endpoints.
type Handler struct {
	notifier *notify.Center
	metrics  *metrics.Metrics
}

// NewHandler creates a notifications handler.
func NewHandler(notifier *notify.Center, m *metrics.Metrics) *Handler {
	return &Handler{
		notifier: notifier,
		metrics:  m,
	}
}

// RegisterRoutes mounts the notification endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.list)
	rg.DELETE("/notifications/:id", h.dismiss)
}

func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.notifier.Active(respond.SessionID(c)),
	})
}

func (h *Handler) dismiss(c *gin.Context) {
	h.notifier.Dismiss(respond.SessionID(c), c.Param("id"))
	c.Status(http.StatusNoContent)
}
