// Package main provides the Fayz ordering server entry point.
package main

import (
	"context"
	"time"

	"github.com/fayzdev/fayz-go/internal/cart"
	"github.com/fayzdev/fayz-go/internal/logger"
)

// purgeStaleCarts periodically drops carts that have been idle longer
// than the configured TTL, from both the snapshot store and the cart
// manager's memory. Runs once at startup, then on every tick until the
// context is canceled.
func purgeStaleCarts(ctx context.Context, carts *cart.Manager, interval time.Duration, log *logger.Logger) {
	performCartPurge(ctx, carts, log)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Cart purge job stopped")
			return
		case <-ticker.C:
			performCartPurge(ctx, carts, log)
		}
	}
}

func performCartPurge(ctx context.Context, carts *cart.Manager, log *logger.Logger) {
	start := time.Now()

	purged, err := carts.PurgeStale(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to purge stale carts")
		return
	}

	if purged > 0 {
		log.WithField("purged", purged).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("Stale carts purged")
	}
}
