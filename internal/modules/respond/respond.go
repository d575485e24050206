// Package respond maps domain errors onto HTTP responses. All modules
// share this mapping so a given error always produces the same status
// code and body shape.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/metrics"
)

// Error writes the response for err and records it in metrics under the
// module label.
func Error(c *gin.Context, m *metrics.Metrics, module string, err error) {
	var ve *domerrors.ValidationError
	if errors.As(err, &ve) {
		m.RecordHTTPError("validation", module)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ve.Message,
			"field": ve.Field,
		})
		return
	}

	var se *domerrors.SubmissionError
	if errors.As(err, &se) {
		status := http.StatusBadGateway
		errorType := "submission"
		if errors.Is(err, domerrors.ErrSubmissionCanceled) {
			// Client abandoned the checkout; not a server fault
			status = http.StatusConflict
			errorType = "canceled"
		}
		m.RecordHTTPError(errorType, module)
		c.JSON(status, gin.H{
			"error":    "order submission failed",
			"order_id": se.OrderID,
		})
		return
	}

	switch {
	case domerrors.IsNotFound(err):
		m.RecordHTTPError("not_found", module)
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case domerrors.IsEmptyCart(err):
		m.RecordHTTPError("empty_cart", module)
		c.JSON(http.StatusConflict, gin.H{"error": "cart is empty"})
	case errors.Is(err, domerrors.ErrCheckoutClosed):
		m.RecordHTTPError("checkout_closed", module)
		c.JSON(http.StatusConflict, gin.H{"error": "checkout is not open"})
	case domerrors.IsSubmissionInFlight(err):
		m.RecordHTTPError("in_flight", module)
		c.JSON(http.StatusConflict, gin.H{"error": "an order submission is already in progress"})
	case domerrors.IsRateLimitExceeded(err):
		m.RecordHTTPError("rate_limited", module)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	default:
		m.RecordHTTPError("internal", module)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// SessionID returns the session attached by the session middleware.
func SessionID(c *gin.Context) string {
	return c.GetString("session_id")
}
