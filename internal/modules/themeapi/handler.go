// Package themeapi exposes theme resolution and selection over HTTP.
package themeapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/modules/respond"
	"github.com/fayzdev/fayz-go/internal/theme"
)

// ModuleName identifies this module in logs and metrics.
const ModuleName = "theme"

// Handler serves theme endpoints.
type Handler struct {
	theme   *theme.Service
	metrics *metrics.Metrics
}

// NewHandler creates a theme handler.
func NewHandler(themeSvc *theme.Service, m *metrics.Metrics) *Handler {
	return &Handler{
		theme:   themeSvc,
		metrics: m,
	}
}

// RegisterRoutes mounts the theme endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/theme", h.get)
	rg.PUT("/theme", h.set)
	rg.DELETE("/theme", h.reset)
}

func (h *Handler) get(c *gin.Context) {
	resolved, err := h.theme.Resolve(c.Request.Context(), respond.SessionID(c))
	if err != nil {
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": resolved})
}

type setRequest struct {
	Theme string `json:"theme"`
}

func (h *Handler) set(c *gin.Context) {
	var req setRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, h.metrics, ModuleName,
			&domerrors.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}

	if err := h.theme.Set(c.Request.Context(), respond.SessionID(c), req.Theme); err != nil {
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}

func (h *Handler) reset(c *gin.Context) {
	if err := h.theme.Reset(c.Request.Context(), respond.SessionID(c)); err != nil {
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}
	c.Status(http.StatusNoContent)
}
