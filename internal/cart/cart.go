// Package cart implements the ordering cart: line-item state keyed by
// session, snapshot persistence with fail-soft recovery, and a pure
// render step that derives totals from state.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/storage"
)

// Item is a single cart line. Lines are keyed by Name: adding an item
// that is already in the cart merges quantities instead of appending a
// duplicate line.
type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Manager owns the carts of all active sessions. In-memory state is
// authoritative; every mutation is mirrored to the snapshot store, and
// a store failure is logged but never surfaced to the caller.
type Manager struct {
	store   storage.SnapshotRepository
	metrics *metrics.Metrics
	taxRate float64

	mu    sync.Mutex
	carts map[string][]Item
}

// NewManager creates a cart manager backed by the given snapshot store.
func NewManager(store storage.SnapshotRepository, m *metrics.Metrics, taxRate float64) *Manager {
	return &Manager{
		store:   store,
		metrics: m,
		taxRate: taxRate,
		carts:   make(map[string][]Item),
	}
}

// TaxRate returns the configured tax rate.
func (mgr *Manager) TaxRate() float64 {
	return mgr.taxRate
}

// snapshotKeyPrefix namespaces cart slots in the snapshot store.
const snapshotKeyPrefix = "cart:"

func snapshotKey(sessionID string) string {
	return snapshotKeyPrefix + sessionID
}

// Get returns the rendered cart for a session, loading it from the
// snapshot store on first access.
func (mgr *Manager) Get(ctx context.Context, sessionID string) View {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	items := mgr.loadLocked(ctx, sessionID)
	return Render(items, mgr.taxRate)
}

// Items returns a copy of a session's cart lines.
// Checkout freezes these into an order.
func (mgr *Manager) Items(ctx context.Context, sessionID string) []Item {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	items := mgr.loadLocked(ctx, sessionID)
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Add puts an item into the cart, merging with an existing line of the
// same name. Quantity must be positive.
func (mgr *Manager) Add(ctx context.Context, sessionID string, item Item) (View, error) {
	if item.Name == "" {
		return View{}, &domerrors.ValidationError{Field: "name", Message: "item name is required"}
	}
	if item.Quantity <= 0 {
		return View{}, &domerrors.ValidationError{Field: "quantity", Message: "quantity must be positive"}
	}
	if item.Price < 0 {
		return View{}, &domerrors.ValidationError{Field: "price", Message: "price must not be negative"}
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	items := mgr.loadLocked(ctx, sessionID)
	merged := false
	for i := range items {
		if items[i].Name == item.Name {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}
	mgr.carts[sessionID] = items
	mgr.persistLocked(ctx, sessionID, items)

	mgr.metrics.RecordCartOperation("add", "success", len(items))
	return Render(items, mgr.taxRate), nil
}

// Remove deletes a line by name. Removing an absent line is a no-op.
func (mgr *Manager) Remove(ctx context.Context, sessionID, name string) View {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	items := mgr.loadLocked(ctx, sessionID)
	for i := range items {
		if items[i].Name == name {
			items = append(items[:i], items[i+1:]...)
			break
		}
	}
	mgr.carts[sessionID] = items
	mgr.persistLocked(ctx, sessionID, items)

	mgr.metrics.RecordCartOperation("remove", "success", len(items))
	return Render(items, mgr.taxRate)
}

// SetQuantity replaces a line's quantity. A quantity of zero or less
// removes the line, matching Remove exactly.
func (mgr *Manager) SetQuantity(ctx context.Context, sessionID, name string, quantity int) View {
	if quantity <= 0 {
		return mgr.Remove(ctx, sessionID, name)
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	items := mgr.loadLocked(ctx, sessionID)
	for i := range items {
		if items[i].Name == name {
			items[i].Quantity = quantity
			break
		}
	}
	mgr.carts[sessionID] = items
	mgr.persistLocked(ctx, sessionID, items)

	mgr.metrics.RecordCartOperation("update_quantity", "success", len(items))
	return Render(items, mgr.taxRate)
}

// Clear empties the cart and removes its snapshot.
func (mgr *Manager) Clear(ctx context.Context, sessionID string) View {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	mgr.carts[sessionID] = nil
	if err := mgr.store.DeleteCartSnapshot(ctx, snapshotKey(sessionID)); err != nil {
		slog.WarnContext(ctx, "failed to delete cart snapshot",
			"session_id", sessionID,
			"error", err)
	}

	mgr.metrics.RecordCartOperation("clear", "success", 0)
	return Render(nil, mgr.taxRate)
}

// Evict drops a session's in-memory cart.
func (mgr *Manager) Evict(sessionID string) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	delete(mgr.carts, sessionID)
}

// PurgeStale removes cart snapshots idle longer than the store TTL and
// evicts their in-memory copies, so an expired cart is gone from both
// layers in one pass. Returns how many carts were purged.
func (mgr *Manager) PurgeStale(ctx context.Context) (int, error) {
	keys, err := mgr.store.PurgeStaleCartSnapshots(ctx)
	if err != nil {
		return 0, err
	}

	mgr.mu.Lock()
	for _, key := range keys {
		delete(mgr.carts, strings.TrimPrefix(key, snapshotKeyPrefix))
	}
	mgr.mu.Unlock()

	return len(keys), nil
}

// loadLocked returns the session's items, reading the snapshot store on
// first access. A corrupt snapshot is discarded and the slot cleared so
// the session starts over with an empty cart instead of erroring.
// Caller must hold mgr.mu.
func (mgr *Manager) loadLocked(ctx context.Context, sessionID string) []Item {
	if items, ok := mgr.carts[sessionID]; ok {
		return items
	}

	key := snapshotKey(sessionID)
	payload, err := mgr.store.GetCartSnapshot(ctx, key)
	if err != nil {
		if !domerrors.IsNotFound(err) {
			slog.WarnContext(ctx, "failed to load cart snapshot",
				"session_id", sessionID,
				"error", err)
		}
		mgr.carts[sessionID] = nil
		return nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(payload), &items); err != nil || !validItems(items) {
		slog.WarnContext(ctx, "discarding corrupt cart snapshot",
			"session_id", sessionID,
			"error", err)
		mgr.metrics.RecordSnapshotCorruption()
		if err := mgr.store.DeleteCartSnapshot(ctx, key); err != nil {
			slog.WarnContext(ctx, "failed to clear corrupt cart snapshot",
				"session_id", sessionID,
				"error", err)
		}
		mgr.carts[sessionID] = nil
		return nil
	}

	mgr.carts[sessionID] = items
	return items
}

// persistLocked mirrors the cart to the snapshot store. Failures are
// logged and counted but never returned: losing persistence must not
// break an in-progress order. Caller must hold mgr.mu.
func (mgr *Manager) persistLocked(ctx context.Context, sessionID string, items []Item) {
	payload, err := json.Marshal(items)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode cart snapshot",
			"session_id", sessionID,
			"error", err)
		return
	}

	if err := mgr.store.SaveCartSnapshot(ctx, snapshotKey(sessionID), string(payload)); err != nil {
		slog.WarnContext(ctx, "failed to persist cart snapshot",
			"session_id", sessionID,
			"error", err)
		mgr.metrics.RecordCartOperation("persist", "error", len(items))
	}
}

// validItems rejects snapshots whose decoded shape is unusable: items
// without a name, negative prices, or non-positive quantities.
func validItems(items []Item) bool {
	for _, item := range items {
		if item.Name == "" || item.Price < 0 || item.Quantity <= 0 {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer for log output.
func (i Item) String() string {
	return fmt.Sprintf("%s x%d @ %.2f", i.Name, i.Quantity, i.Price)
}
