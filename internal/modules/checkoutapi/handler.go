// Package checkoutapi exposes the checkout flow over HTTP.
package checkoutapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fayzdev/fayz-go/internal/checkout"
	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/forms"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/modules/respond"
	"github.com/fayzdev/fayz-go/internal/notify"
	"github.com/fayzdev/fayz-go/internal/storage"
)

// ModuleName identifies this module in logs and metrics.
const ModuleName = "checkout"

// Handler serves checkout endpoints.
type Handler struct {
	flow     *checkout.Flow
	notifier *notify.Center
	metrics  *metrics.Metrics
}

// NewHandler creates a checkout handler.
func NewHandler(flow *checkout.Flow, notifier *notify.Center, m *metrics.Metrics) *Handler {
	return &Handler{
		flow:     flow,
		notifier: notifier,
		metrics:  m,
	}
}

// RegisterRoutes mounts the checkout endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout/open", h.open)
	rg.POST("/checkout/close", h.close)
	rg.GET("/checkout/status", h.status)
	rg.POST("/checkout/submit", h.submit)
}

func (h *Handler) open(c *gin.Context) {
	sessionID := respond.SessionID(c)
	if err := h.flow.Open(c.Request.Context(), sessionID); err != nil {
		if domerrors.IsEmptyCart(err) {
			h.notifier.Error(sessionID, "Your cart is empty. Add something from the menu first.")
		}
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":   h.flow.Status(sessionID),
		"summary": h.flow.Summary(c.Request.Context(), sessionID),
	})
}

func (h *Handler) close(c *gin.Context) {
	sessionID := respond.SessionID(c)
	h.flow.Close(sessionID)
	c.JSON(http.StatusOK, gin.H{"state": h.flow.Status(sessionID)})
}

func (h *Handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.flow.Status(respond.SessionID(c))})
}

func (h *Handler) submit(c *gin.Context) {
	var form forms.Checkout
	if err := c.ShouldBindJSON(&form); err != nil {
		respond.Error(c, h.metrics, ModuleName,
			&domerrors.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	if err := form.Validate(); err != nil {
		h.metrics.RecordFormSubmission("checkout", "invalid")
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}

	sessionID := respond.SessionID(c)
	order, err := h.flow.Submit(c.Request.Context(), sessionID, storage.CustomerInfo{
		Name:    form.Name,
		Phone:   form.Phone,
		Address: form.Address,
		Comment: form.Comment,
	})
	if err != nil {
		h.metrics.RecordFormSubmission("checkout", "error")
		h.notifier.Error(sessionID, "We could not place your order. Please try again.")
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}

	h.metrics.RecordFormSubmission("checkout", "success")
	notification := h.notifier.Success(sessionID, "Thank you! Your order has been placed.")
	c.JSON(http.StatusOK, gin.H{
		"order": gin.H{
			"id":          order.ID,
			"subtotal":    order.Subtotal,
			"tax":         order.Tax,
			"grand_total": order.GrandTotal,
		},
		"notification": notification,
	})
}
