package cart

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/storage"
)

const testTaxRate = 0.085

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	db, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	m := metrics.New(prometheus.NewRegistry())
	return NewManager(db, m, testTaxRate)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAddMergesByName(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(t)
	ctx := context.Background()

	if _, err := mgr.Add(ctx, "sess", Item{Name: "Margherita Pizza", Price: 12.00, Quantity: 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	view, err := mgr.Add(ctx, "sess", Item{Name: "Margherita Pizza", Price: 12.00, Quantity: 1})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if len(view.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1 merged line", len(view.Rows))
	}
	if view.Rows[0].Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", view.Rows[0].Quantity)
	}
}

func TestAddValidation(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(t)
	ctx := context.Background()

	tests := []struct {
		name string
		item Item
	}{
		{"empty name", Item{Name: "", Price: 5, Quantity: 1}},
		{"zero quantity", Item{Name: "Plov", Price: 9.5, Quantity: 0}},
		{"negative quantity", Item{Name: "Plov", Price: 9.5, Quantity: -1}},
		{"negative price", Item{Name: "Plov", Price: -1, Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.Add(ctx, "sess", tt.item); !domerrors.IsInvalidInput(err) {
				t.Errorf("Add(%+v) error = %v, want invalid input", tt.item, err)
			}
		})
	}
}

func TestTotalsScenario(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(t)
	ctx := context.Background()

	if _, err := mgr.Add(ctx, "sess", Item{Name: "Margherita Pizza", Price: 12.00, Quantity: 2}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	view, err := mgr.Add(ctx, "sess", Item{Name: "Caesar Salad", Price: 6.50, Quantity: 1})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if !almostEqual(view.Subtotal, 30.50) {
		t.Errorf("Subtotal = %v, want 30.50", view.Subtotal)
	}
	if !almostEqual(view.Tax, 2.5925) {
		t.Errorf("Tax = %v, want 2.5925", view.Tax)
	}
	if !almostEqual(view.GrandTotal, 33.0925) {
		t.Errorf("GrandTotal = %v, want 33.0925", view.GrandTotal)
	}
	if view.ItemCount != 3 {
		t.Errorf("ItemCount = %d, want 3", view.ItemCount)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(t)
	ctx := context.Background()

	if _, err := mgr.Add(ctx, "sess", Item{Name: "Plov", Price: 9.50, Quantity: 2}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	for _, quantity := range []int{0, -3} {
		viaSet := mgr.SetQuantity(ctx, "sess", "Plov", quantity)
		if !viaSet.Empty {
			t.Errorf("SetQuantity(%d) should remove the line", quantity)
		}
		if viaSet.CheckoutEnabled {
			t.Error("empty cart must not allow checkout")
		}
		// Restore for the next iteration
		if _, err := mgr.Add(ctx, "sess", Item{Name: "Plov", Price: 9.50, Quantity: 2}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
}

func TestRemoveAbsentLineIsNoop(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(t)
	ctx := context.Background()

	if _, err := mgr.Add(ctx, "sess", Item{Name: "Plov", Price: 9.50, Quantity: 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	view := mgr.Remove(ctx, "sess", "Nonexistent")
	if len(view.Rows) != 1 {
		t.Errorf("len(Rows) = %d, want 1", len(view.Rows))
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(t)
	ctx := context.Background()

	if _, err := mgr.Add(ctx, "sess", Item{Name: "Plov", Price: 9.50, Quantity: 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	view := mgr.Clear(ctx, "sess")
	if !view.Empty {
		t.Error("Clear() should leave an empty cart")
	}
	if view.Subtotal != 0 || view.Tax != 0 || view.GrandTotal != 0 {
		t.Errorf("totals after Clear = %v/%v/%v, want zeros", view.Subtotal, view.Tax, view.GrandTotal)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	db, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	m := metrics.New(prometheus.NewRegistry())

	ctx := context.Background()
	first := NewManager(db, m, testTaxRate)
	if _, err := first.Add(ctx, "sess", Item{Name: "Margherita Pizza", Price: 12.00, Quantity: 2}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// A fresh manager over the same store simulates a restart
	second := NewManager(db, m, testTaxRate)
	view := second.Get(ctx, "sess")
	if len(view.Rows) != 1 || view.Rows[0].Quantity != 2 {
		t.Errorf("restored cart = %+v, want the persisted line", view.Rows)
	}
}

func TestPurgeStaleEvictsMemory(t *testing.T) {
	t.Parallel()

	db, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	m := metrics.New(prometheus.NewRegistry())

	ctx := context.Background()
	mgr := NewManager(db, m, testTaxRate)
	if _, err := mgr.Add(ctx, "idle", Item{Name: "Plov", Price: 9.50, Quantity: 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Backdate the snapshot past the store TTL
	if _, err := db.Exec(
		`UPDATE cart_snapshots SET updated_at = updated_at - 999999 WHERE key = ?`,
		"cart:idle"); err != nil {
		t.Fatalf("failed to backdate snapshot: %v", err)
	}

	purged, err := mgr.PurgeStale(ctx)
	if err != nil {
		t.Fatalf("PurgeStale() error = %v", err)
	}
	if purged != 1 {
		t.Fatalf("PurgeStale() = %d, want 1", purged)
	}

	// The in-memory copy must be gone too, not just the stored one
	if view := mgr.Get(ctx, "idle"); !view.Empty {
		t.Errorf("cart after purge = %+v, want empty", view.Rows)
	}
}

func TestCorruptSnapshotFailsSoft(t *testing.T) {
	t.Parallel()

	db, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	m := metrics.New(prometheus.NewRegistry())

	ctx := context.Background()
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{{not json`},
		{"wrong shape", `{"name":"Plov"}`},
		{"missing name", `[{"price":5,"quantity":1}]`},
		{"negative quantity", `[{"name":"Plov","price":5,"quantity":-1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionID := "sess-" + tt.name
			if err := db.SaveCartSnapshot(ctx, "cart:"+sessionID, tt.payload); err != nil {
				t.Fatalf("SaveCartSnapshot() error = %v", err)
			}

			mgr := NewManager(db, m, testTaxRate)
			view := mgr.Get(ctx, sessionID)
			if !view.Empty {
				t.Errorf("corrupt snapshot should yield an empty cart, got %+v", view.Rows)
			}

			// The corrupt slot must be cleared so the next load is clean
			if _, err := db.GetCartSnapshot(ctx, "cart:"+sessionID); !errors.Is(err, domerrors.ErrNotFound) {
				t.Errorf("corrupt snapshot should be deleted, got error %v", err)
			}
		})
	}
}

func TestPersistFailureDoesNotBreakCart(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	mgr := NewManager(failingStore{}, m, testTaxRate)
	ctx := context.Background()

	view, err := mgr.Add(ctx, "sess", Item{Name: "Plov", Price: 9.50, Quantity: 1})
	if err != nil {
		t.Fatalf("Add() with failing store error = %v", err)
	}
	if view.Empty {
		t.Error("cart should hold the item despite the store failure")
	}

	view = mgr.Clear(ctx, "sess")
	if !view.Empty {
		t.Error("Clear() with failing store should still empty the cart")
	}
}

func TestRenderIsPure(t *testing.T) {
	t.Parallel()

	items := []Item{
		{Name: "Margherita Pizza", Price: 12.00, Quantity: 2},
		{Name: "Caesar Salad", Price: 6.50, Quantity: 1},
	}

	first := Render(items, testTaxRate)
	second := Render(items, testTaxRate)

	if first.Subtotal != second.Subtotal || first.Tax != second.Tax || first.GrandTotal != second.GrandTotal {
		t.Error("Render() should be deterministic for identical input")
	}
	if len(items) != 2 {
		t.Error("Render() must not mutate its input")
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	view := Render(nil, testTaxRate)
	if !view.Empty {
		t.Error("Empty should be true for nil items")
	}
	if view.CheckoutEnabled {
		t.Error("CheckoutEnabled should be false for an empty cart")
	}
	if view.Rows == nil {
		t.Error("Rows should be an empty slice, not nil, for stable JSON")
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value float64
		want  string
	}{
		{30.50, "30.50"},
		{2.5925, "2.59"},
		{0, "0.00"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.value); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

// failingStore simulates an unavailable snapshot store.
type failingStore struct{}

func (failingStore) GetCartSnapshot(_ context.Context, _ string) (string, error) {
	return "", errors.New("store unavailable")
}

func (failingStore) SaveCartSnapshot(_ context.Context, _, _ string) error {
	return errors.New("store unavailable")
}

func (failingStore) DeleteCartSnapshot(_ context.Context, _ string) error {
	return errors.New("store unavailable")
}

func (failingStore) PurgeStaleCartSnapshots(_ context.Context) ([]string, error) {
	return nil, errors.New("store unavailable")
}
