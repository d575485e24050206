// Package storage provides SQLite persistence and repository interfaces
// for cart snapshots, orders, the menu catalog, and form submissions.
// The interfaces enable dependency inversion and facilitate testing by
// decoupling handlers from the concrete database.
package storage

import (
	"context"
	"time"
)

// SnapshotRepository defines the interface for cart snapshot operations.
// Payloads are opaque JSON; the cart layer owns encoding and the
// fail-soft handling of corrupt data.
type SnapshotRepository interface {
	GetCartSnapshot(ctx context.Context, key string) (string, error)
	SaveCartSnapshot(ctx context.Context, key, payload string) error
	DeleteCartSnapshot(ctx context.Context, key string) error
	PurgeStaleCartSnapshots(ctx context.Context) ([]string, error)
}

// OrderRepository defines the interface for order data operations.
type OrderRepository interface {
	SaveOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	ListOrdersBySession(ctx context.Context, sessionID string, limit int) ([]*Order, error)
	CountOrdersSince(ctx context.Context, sessionID string, since time.Time) (int, error)
}

// MenuRepository defines the interface for menu catalog operations.
type MenuRepository interface {
	GetMenuItemByName(ctx context.Context, name string) (*MenuItem, error)
	ListMenuItems(ctx context.Context) ([]*MenuItem, error)
	SaveMenuItem(ctx context.Context, item *MenuItem) error
	SaveMenuItemsBatch(ctx context.Context, items []*MenuItem) error
	CountMenuItems(ctx context.Context) (int, error)
}

// BookingRepository defines the interface for reservation operations.
type BookingRepository interface {
	SaveReservation(ctx context.Context, reservation *Reservation) error
	CountReservationsAt(ctx context.Context, date, timeSlot string) (int, error)
}

// ContactRepository defines the interface for contact and newsletter operations.
type ContactRepository interface {
	SaveContactMessage(ctx context.Context, msg *ContactMessage) error
	SubscribeNewsletter(ctx context.Context, email string) error
	IsNewsletterSubscriber(ctx context.Context, email string) (bool, error)
}

// PreferenceRepository defines the interface for theme preference operations.
type PreferenceRepository interface {
	SaveThemePreference(ctx context.Context, sessionID, theme string) error
	GetThemePreference(ctx context.Context, sessionID string) (string, error)
	DeleteThemePreference(ctx context.Context, sessionID string) error
}
