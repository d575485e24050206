// Package contact exposes the contact form and newsletter signup over
// HTTP.
package contact

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/forms"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/modules/respond"
	"github.com/fayzdev/fayz-go/internal/notify"
	"github.com/fayzdev/fayz-go/internal/ratelimit"
	"github.com/fayzdev/fayz-go/internal/storage"
)

// ModuleName identifies this module in logs and metrics.
const ModuleName = "contact"

// Handler serves contact and newsletter endpoints.
type Handler struct {
	repo     storage.ContactRepository
	notifier *notify.Center
	metrics  *metrics.Metrics
	limiter  *ratelimit.KeyedLimiter
}

// NewHandler creates a contact handler.
func NewHandler(repo storage.ContactRepository, notifier *notify.Center, m *metrics.Metrics, limiter *ratelimit.KeyedLimiter) *Handler {
	return &Handler{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		limiter:  limiter,
	}
}

// RegisterRoutes mounts the contact endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.sendMessage)
	rg.POST("/newsletter", h.subscribe)
}

func (h *Handler) sendMessage(c *gin.Context) {
	sessionID := respond.SessionID(c)
	if !h.limiter.Allow(sessionID) {
		respond.Error(c, h.metrics, ModuleName, domerrors.ErrRateLimitExceeded)
		return
	}

	var form forms.Contact
	if err := c.ShouldBindJSON(&form); err != nil {
		respond.Error(c, h.metrics, ModuleName,
			&domerrors.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	if err := form.Validate(); err != nil {
		h.metrics.RecordFormSubmission("contact", "invalid")
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}

	msg := &storage.ContactMessage{
		ID:        uuid.NewString(),
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Subject:   form.Subject,
		Body:      form.Message,
		CreatedAt: time.Now(),
	}
	if err := h.repo.SaveContactMessage(c.Request.Context(), msg); err != nil {
		h.metrics.RecordFormSubmission("contact", "error")
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}

	h.metrics.RecordFormSubmission("contact", "success")
	notification := h.notifier.Success(sessionID, "Thanks for reaching out! We will reply soon.")
	c.JSON(http.StatusCreated, gin.H{"notification": notification})
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *Handler) subscribe(c *gin.Context) {
	sessionID := respond.SessionID(c)
	if !h.limiter.Allow(sessionID) {
		respond.Error(c, h.metrics, ModuleName, domerrors.ErrRateLimitExceeded)
		return
	}

	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, h.metrics, ModuleName,
			&domerrors.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	if err := forms.ValidateEmail(req.Email); err != nil {
		h.metrics.RecordFormSubmission("newsletter", "invalid")
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}

	if err := h.repo.SubscribeNewsletter(c.Request.Context(), req.Email); err != nil {
		h.metrics.RecordFormSubmission("newsletter", "error")
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}

	h.metrics.RecordFormSubmission("newsletter", "success")
	notification := h.notifier.Success(sessionID, "You are on the list!")
	c.JSON(http.StatusOK, gin.H{"notification": notification})
}
