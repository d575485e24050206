// Package cartapi exposes the cart over HTTP. Item prices always come
// from the menu catalog, never from the client.
package cartapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fayzdev/fayz-go/internal/cart"
	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/menu"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/modules/respond"
	"github.com/fayzdev/fayz-go/internal/notify"
)

// ModuleName identifies this module in logs and metrics.
const ModuleName = "cart"

// Handler serves cart endpoints.
type Handler struct {
	carts    *cart.Manager
	menu     *menu.Service
	notifier *notify.Center
	metrics  *metrics.Metrics
}

// NewHandler creates a cart handler.
func NewHandler(carts *cart.Manager, menuSvc *menu.Service, notifier *notify.Center, m *metrics.Metrics) *Handler {
	return &Handler{
		carts:    carts,
		menu:     menuSvc,
		notifier: notifier,
		metrics:  m,
	}
}

// RegisterRoutes mounts the cart endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cart", h.getCart)
	rg.POST("/cart/items", h.addItem)
	rg.PATCH("/cart/items/:name", h.updateQuantity)
	rg.DELETE("/cart/items/:name", h.removeItem)
	rg.DELETE("/cart", h.clear)
}

func (h *Handler) getCart(c *gin.Context) {
	view := h.carts.Get(c.Request.Context(), respond.SessionID(c))
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

type addItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, h.metrics, ModuleName,
			&domerrors.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx := c.Request.Context()
	item, err := h.menu.Get(ctx, req.Name)
	if err != nil {
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}
	if !item.Available {
		respond.Error(c, h.metrics, ModuleName,
			&domerrors.ValidationError{Field: "name", Message: "item is not available"})
		return
	}

	sessionID := respond.SessionID(c)
	view, err := h.carts.Add(ctx, sessionID, cart.Item{
		Name:     item.Name,
		Price:    item.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}

	notification := h.notifier.Success(sessionID, item.Name+" added to cart")
	c.JSON(http.StatusOK, gin.H{
		"cart":         view,
		"notification": notification,
	})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, h.metrics, ModuleName,
			&domerrors.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}

	view := h.carts.SetQuantity(c.Request.Context(), respond.SessionID(c), c.Param("name"), req.Quantity)
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

func (h *Handler) removeItem(c *gin.Context) {
	sessionID := respond.SessionID(c)
	name := c.Param("name")
	view := h.carts.Remove(c.Request.Context(), sessionID, name)

	notification := h.notifier.Info(sessionID, name+" removed from cart")
	c.JSON(http.StatusOK, gin.H{
		"cart":         view,
		"notification": notification,
	})
}

func (h *Handler) clear(c *gin.Context) {
	sessionID := respond.SessionID(c)
	view := h.carts.Clear(c.Request.Context(), sessionID)

	notification := h.notifier.Info(sessionID, "Cart cleared")
	c.JSON(http.StatusOK, gin.H{
		"cart":         view,
		"notification": notification,
	})
}
