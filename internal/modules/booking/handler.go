// Package booking exposes table reservations over HTTP.
package booking

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
const ModuleName = "booking"

// tablesPerSlot caps concurrent bookings for one date/time slot.
const tablesPerSlot = 10

// Handler serves reservation endpoints.
type Handler struct {
	repo     storage.BookingRepository
	notifier *notify.Center
	metrics  *metrics.Metrics
	limiter  *ratelimit.KeyedLimiter
}

// NewHandler creates a booking handler. The limiter caps submissions
// per session to keep bots from filling the book.
func NewHandler(repo storage.BookingRepository, notifier *notify.Center, m *metrics.Metrics, limiter *ratelimit.KeyedLimiter) *Handler {
	return &Handler{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		limiter:  limiter,
	}
}

// RegisterRoutes mounts the reservation endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reservations", h.create)
}

func (h *Handler) create(c *gin.Context) {
	sessionID := respond.SessionID(c)
	if !h.limiter.Allow(sessionID) {
		respond.Error(c, h.metrics, ModuleName, domerrors.ErrRateLimitExceeded)
		return
	}

	var form forms.Reservation
	if err := c.ShouldBindJSON(&form); err != nil {
		respond.Error(c, h.metrics, ModuleName,
			&domerrors.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	if err := form.Validate(time.Now()); err != nil {
		h.metrics.RecordFormSubmission("reservation", "invalid")
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}

	ctx := c.Request.Context()
	taken, err := h.repo.CountReservationsAt(ctx, form.Date, form.Time)
	if err != nil {
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}
	if taken >= tablesPerSlot {
		h.metrics.RecordFormSubmission("reservation", "full")
		c.JSON(http.StatusConflict, gin.H{"error": "no tables left for this time"})
		return
	}

	reservation := &storage.Reservation{
		ID:        uuid.NewString(),
		Name:      form.Name,
		Phone:     form.Phone,
		Date:      form.Date,
		Time:      form.Time,
		Guests:    form.Guests,
		TableType: form.TableType,
		CreatedAt: time.Now(),
	}
	if err := h.repo.SaveReservation(ctx, reservation); err != nil {
		h.metrics.RecordFormSubmission("reservation", "error")
		respond.Error(c, h.metrics, ModuleName, err)
		return
	}

	h.metrics.RecordFormSubmission("reservation", "success")
	notification := h.notifier.Success(sessionID, "Your table is booked for "+form.Date+" at "+form.Time)
	c.JSON(http.StatusCreated, gin.H{
		"reservation":  gin.H{"id": reservation.ID},
		"notification": notification,
	})
}
