// Package checkout implements the order checkout flow: a small
// per-session state machine that gates submission on a non-empty cart,
// guards against concurrent submits, and hands the finalized order to
// an injected Submitter.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fayzdev/fayz-go/internal/cart"
	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/storage"
)

// Checkout states as reported by Status.
const (
	StateClosed     = "closed"
	StateOpen       = "open"
	StateSubmitting = "submitting"
	StateFailed     = "failed"
)

// Flow coordinates checkout for all sessions.
type Flow struct {
	carts      *cart.Manager
	orders     storage.OrderRepository
	submitter  Submitter
	metrics    *metrics.Metrics
	dailyLimit int

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	open   bool
	failed bool
	cancel context.CancelFunc // non-nil while a submission is in flight
}

// NewFlow creates a checkout flow. dailyLimit caps orders per session
// per rolling 24 hours; zero or negative disables the cap.
func NewFlow(carts *cart.Manager, orders storage.OrderRepository, submitter Submitter, m *metrics.Metrics, dailyLimit int) *Flow {
	return &Flow{
		carts:      carts,
		orders:     orders,
		submitter:  submitter,
		metrics:    m,
		dailyLimit: dailyLimit,
		sessions:   make(map[string]*session),
	}
}

// Open starts checkout for a session. Returns ErrEmptyCart when there
// is nothing to order; an empty cart never reaches the checkout panel.
func (f *Flow) Open(ctx context.Context, sessionID string) error {
	view := f.carts.Get(ctx, sessionID)
	if view.Empty {
		f.metrics.RecordCheckoutRejected("empty_cart")
		return domerrors.ErrEmptyCart
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.sessions[sessionID]
	if s == nil {
		s = &session{}
		f.sessions[sessionID] = s
	}
	if s.cancel != nil {
		return domerrors.ErrSubmissionInFlight
	}
	s.open = true
	s.failed = false
	return nil
}

// Close abandons checkout. A submission in flight is canceled; its
// Submit call returns ErrSubmissionCanceled.
func (f *Flow) Close(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.sessions[sessionID]
	if s == nil {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.open = false
	s.failed = false
	delete(f.sessions, sessionID)
}

// Status reports the session's checkout state.
func (f *Flow) Status(sessionID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.sessions[sessionID]
	switch {
	case s == nil || !s.open:
		return StateClosed
	case s.cancel != nil:
		return StateSubmitting
	case s.failed:
		return StateFailed
	default:
		return StateOpen
	}
}

// Summary returns the read-only cart view shown in the checkout panel.
func (f *Flow) Summary(ctx context.Context, sessionID string) cart.View {
	return f.carts.Get(ctx, sessionID)
}

// Submit finalizes the cart into an order and sends it through the
// Submitter. Exactly one submission may be in flight per session; a
// second call while one is pending returns ErrSubmissionInFlight
// without touching the pending one. On success the order is persisted
// and the cart cleared; on failure the cart and checkout stay intact so
// the guest can retry.
func (f *Flow) Submit(ctx context.Context, sessionID string, customer storage.CustomerInfo) (*storage.Order, error) {
	items := f.carts.Items(ctx, sessionID)

	f.mu.Lock()
	s := f.sessions[sessionID]
	if s == nil || !s.open {
		f.mu.Unlock()
		f.metrics.RecordCheckoutRejected("closed")
		return nil, domerrors.ErrCheckoutClosed
	}
	if s.cancel != nil {
		f.mu.Unlock()
		f.metrics.RecordCheckoutRejected("in_flight")
		return nil, domerrors.ErrSubmissionInFlight
	}
	if len(items) == 0 {
		f.mu.Unlock()
		f.metrics.RecordCheckoutRejected("empty_cart")
		return nil, domerrors.ErrEmptyCart
	}
	f.mu.Unlock()

	if f.dailyLimit > 0 {
		count, err := f.orders.CountOrdersSince(ctx, sessionID, time.Now().Add(-24*time.Hour))
		if err != nil {
			return nil, fmt.Errorf("failed to check order limit: %w", err)
		}
		if count >= f.dailyLimit {
			f.metrics.RecordCheckoutRejected("daily_limit")
			return nil, domerrors.ErrRateLimitExceeded
		}
	}

	order := f.buildOrder(sessionID, customer, items)

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	f.mu.Lock()
	// Re-check: another request may have won the race while the limit
	// query ran.
	if s.cancel != nil {
		f.mu.Unlock()
		f.metrics.RecordCheckoutRejected("in_flight")
		return nil, domerrors.ErrSubmissionInFlight
	}
	s.cancel = cancel
	f.mu.Unlock()

	start := time.Now()
	err := f.submitter.Submit(subCtx, order)
	duration := time.Since(start).Seconds()

	f.mu.Lock()
	s.cancel = nil
	if err != nil {
		s.failed = true
		f.mu.Unlock()

		status := "failure"
		if subCtx.Err() != nil {
			status = "canceled"
		}
		f.metrics.RecordOrder(status, order.GrandTotal, duration)
		slog.WarnContext(ctx, "order submission failed",
			"order_id", order.ID,
			"status", status,
			"error", err)
		return nil, &domerrors.SubmissionError{OrderID: order.ID, Err: err}
	}
	s.open = false
	s.failed = false
	// The checkout is done; drop the session entry so the map does not
	// grow with every guest the process has ever served.
	if f.sessions[sessionID] == s {
		delete(f.sessions, sessionID)
	}
	f.mu.Unlock()

	if err := f.orders.SaveOrder(ctx, order); err != nil {
		// The kitchen has the order; losing the local record is not a
		// guest-facing failure.
		slog.ErrorContext(ctx, "failed to record submitted order",
			"order_id", order.ID,
			"error", err)
	}
	f.carts.Clear(ctx, sessionID)

	f.metrics.RecordOrder("success", order.GrandTotal, duration)
	slog.InfoContext(ctx, "order submitted",
		"order_id", order.ID,
		"grand_total", order.GrandTotal,
		"items", len(order.Items))

	return order, nil
}

func (f *Flow) buildOrder(sessionID string, customer storage.CustomerInfo, items []cart.Item) *storage.Order {
	view := cart.Render(items, f.carts.TaxRate())

	orderItems := make([]storage.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, storage.OrderItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	return &storage.Order{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Customer:   customer,
		Items:      orderItems,
		Subtotal:   view.Subtotal,
		Tax:        view.Tax,
		GrandTotal: view.GrandTotal,
		CreatedAt:  time.Now(),
	}
}
