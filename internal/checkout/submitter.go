package checkout

import (
	"context"
	"time"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/storage"
)

// Submitter sends a finalized order to the fulfillment side. It must
// honor context cancellation: an abandoned checkout cancels the
// submission context.
type Submitter interface {
	Submit(ctx context.Context, order *storage.Order) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, order *storage.Order) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, order *storage.Order) error {
	return f(ctx, order)
}

// SimulatedSubmitter stands in for a real fulfillment backend. It waits
// a fixed delay and then succeeds, unless the context is canceled
// first.
type SimulatedSubmitter struct {
	delay time.Duration
}

// NewSimulatedSubmitter creates a submitter that succeeds after delay.
func NewSimulatedSubmitter(delay time.Duration) *SimulatedSubmitter {
	return &SimulatedSubmitter{delay: delay}
}

// Submit waits for the configured delay. Returns ErrSubmissionCanceled
// if the context is canceled before the delay elapses.
func (s *SimulatedSubmitter) Submit(ctx context.Context, _ *storage.Order) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return domerrors.ErrSubmissionCanceled
	}
}
