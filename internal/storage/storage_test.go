package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
)

func TestCartSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	payload := `[{"name":"Margherita Pizza","price":12,"quantity":2}]`

	if err := db.SaveCartSnapshot(ctx, "cart:abc", payload); err != nil {
		t.Fatalf("SaveCartSnapshot() error = %v", err)
	}

	got, err := db.GetCartSnapshot(ctx, "cart:abc")
	if err != nil {
		t.Fatalf("GetCartSnapshot() error = %v", err)
	}
	if got != payload {
		t.Errorf("GetCartSnapshot() = %q, want %q", got, payload)
	}
}

func TestCartSnapshotOverwrite(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if err := db.SaveCartSnapshot(ctx, "cart:abc", "[]"); err != nil {
		t.Fatalf("SaveCartSnapshot() error = %v", err)
	}
	if err := db.SaveCartSnapshot(ctx, "cart:abc", `[{"name":"Salad","price":6.5,"quantity":1}]`); err != nil {
		t.Fatalf("SaveCartSnapshot() second write error = %v", err)
	}

	got, err := db.GetCartSnapshot(ctx, "cart:abc")
	if err != nil {
		t.Fatalf("GetCartSnapshot() error = %v", err)
	}
	if got == "[]" {
		t.Error("expected second write to replace the first")
	}
}

func TestCartSnapshotNotFound(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	_, err = db.GetCartSnapshot(context.Background(), "cart:missing")
	if !errors.Is(err, domerrors.ErrNotFound) {
		t.Errorf("GetCartSnapshot() error = %v, want ErrNotFound", err)
	}
}

func TestCartSnapshotDelete(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if err := db.SaveCartSnapshot(ctx, "cart:abc", "[]"); err != nil {
		t.Fatalf("SaveCartSnapshot() error = %v", err)
	}
	if err := db.DeleteCartSnapshot(ctx, "cart:abc"); err != nil {
		t.Fatalf("DeleteCartSnapshot() error = %v", err)
	}
	if _, err := db.GetCartSnapshot(ctx, "cart:abc"); !errors.Is(err, domerrors.ErrNotFound) {
		t.Errorf("GetCartSnapshot() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting a missing key is not an error
	if err := db.DeleteCartSnapshot(ctx, "cart:never-existed"); err != nil {
		t.Errorf("DeleteCartSnapshot() on missing key error = %v", err)
	}
}

func TestPurgeStaleCartSnapshots(t *testing.T) {
	t.Parallel()

	db, err := New(":memory:", time.Hour)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if err := db.SaveCartSnapshot(ctx, "cart:fresh", "[]"); err != nil {
		t.Fatalf("SaveCartSnapshot() error = %v", err)
	}

	// Backdate one snapshot past the TTL
	stale := time.Now().Add(-2 * time.Hour).Unix()
	if _, err := db.Exec(
		`INSERT INTO cart_snapshots (key, payload, updated_at) VALUES (?, ?, ?)`,
		"cart:stale", "[]", stale); err != nil {
		t.Fatalf("failed to insert stale snapshot: %v", err)
	}

	purged, err := db.PurgeStaleCartSnapshots(ctx)
	if err != nil {
		t.Fatalf("PurgeStaleCartSnapshots() error = %v", err)
	}
	if len(purged) != 1 || purged[0] != "cart:stale" {
		t.Errorf("PurgeStaleCartSnapshots() = %v, want [cart:stale]", purged)
	}

	if _, err := db.GetCartSnapshot(ctx, "cart:fresh"); err != nil {
		t.Errorf("fresh snapshot should survive purge, got error %v", err)
	}
	if _, err := db.GetCartSnapshot(ctx, "cart:stale"); !errors.Is(err, domerrors.ErrNotFound) {
		t.Errorf("stale snapshot should be purged, got error %v", err)
	}
}

func TestOrderRoundTrip(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	order := &Order{
		ID:        "ord-1",
		SessionID: "sess-1",
		Customer: CustomerInfo{
			Name:    "Aziz Karimov",
			Phone:   "+998901234567",
			Address: "12 Amir Temur Avenue",
		},
		Items: []OrderItem{
			{Name: "Margherita Pizza", Price: 12.00, Quantity: 2},
			{Name: "Caesar Salad", Price: 6.50, Quantity: 1},
		},
		Subtotal:   30.50,
		Tax:        2.5925,
		GrandTotal: 33.0925,
		CreatedAt:  time.Now(),
	}

	if err := db.SaveOrder(ctx, order); err != nil {
		t.Fatalf("SaveOrder() error = %v", err)
	}

	got, err := db.GetOrderByID(ctx, "ord-1")
	if err != nil {
		t.Fatalf("GetOrderByID() error = %v", err)
	}
	if got.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want %q", got.SessionID, "sess-1")
	}
	if got.Customer.Phone != "+998901234567" {
		t.Errorf("Customer.Phone = %q, want %q", got.Customer.Phone, "+998901234567")
	}
	if len(got.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(got.Items))
	}
	if got.Items[0].Quantity != 2 {
		t.Errorf("Items[0].Quantity = %d, want 2", got.Items[0].Quantity)
	}
	if got.GrandTotal != 33.0925 {
		t.Errorf("GrandTotal = %v, want 33.0925", got.GrandTotal)
	}
}

func TestGetOrderByIDNotFound(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	_, err = db.GetOrderByID(context.Background(), "missing")
	if !errors.Is(err, domerrors.ErrNotFound) {
		t.Errorf("GetOrderByID() error = %v, want ErrNotFound", err)
	}
}

func TestCountOrdersSince(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	now := time.Now()
	orders := []*Order{
		{ID: "ord-1", SessionID: "sess-1", CreatedAt: now},
		{ID: "ord-2", SessionID: "sess-1", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "ord-3", SessionID: "sess-1", CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "ord-4", SessionID: "sess-2", CreatedAt: now},
	}
	for _, order := range orders {
		if err := db.SaveOrder(ctx, order); err != nil {
			t.Fatalf("SaveOrder(%s) error = %v", order.ID, err)
		}
	}

	count, err := db.CountOrdersSince(ctx, "sess-1", now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("CountOrdersSince() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountOrdersSince() = %d, want 2", count)
	}
}

func TestListOrdersBySession(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	now := time.Now()
	for i, id := range []string{"ord-old", "ord-new"} {
		order := &Order{ID: id, SessionID: "sess-1", CreatedAt: now.Add(time.Duration(i) * time.Hour)}
		if err := db.SaveOrder(ctx, order); err != nil {
			t.Fatalf("SaveOrder(%s) error = %v", id, err)
		}
	}

	got, err := db.ListOrdersBySession(ctx, "sess-1", 10)
	if err != nil {
		t.Fatalf("ListOrdersBySession() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "ord-new" {
		t.Errorf("first order = %q, want newest first", got[0].ID)
	}
}

func TestMenuItemUpsert(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	item := &MenuItem{Name: "Plov", Category: "mains", Price: 9.50, Description: "Uzbek rice pilaf", Available: true}
	if err := db.SaveMenuItem(ctx, item); err != nil {
		t.Fatalf("SaveMenuItem() error = %v", err)
	}

	// Upsert with a new price should replace, not duplicate
	item.Price = 10.00
	if err := db.SaveMenuItem(ctx, item); err != nil {
		t.Fatalf("SaveMenuItem() upsert error = %v", err)
	}

	got, err := db.GetMenuItemByName(ctx, "Plov")
	if err != nil {
		t.Fatalf("GetMenuItemByName() error = %v", err)
	}
	if got.Price != 10.00 {
		t.Errorf("Price = %v, want 10.00", got.Price)
	}

	count, err := db.CountMenuItems(ctx)
	if err != nil {
		t.Fatalf("CountMenuItems() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountMenuItems() = %d, want 1", count)
	}
}

func TestMenuItemsBatch(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	items := []*MenuItem{
		{Name: "Margherita Pizza", Category: "mains", Price: 12.00, Available: true, SortOrder: 1},
		{Name: "Caesar Salad", Category: "starters", Price: 6.50, Available: true, SortOrder: 1},
		{Name: "Tiramisu", Category: "desserts", Price: 5.00, Available: false, SortOrder: 1},
	}
	if err := db.SaveMenuItemsBatch(ctx, items); err != nil {
		t.Fatalf("SaveMenuItemsBatch() error = %v", err)
	}

	got, err := db.ListMenuItems(ctx)
	if err != nil {
		t.Fatalf("ListMenuItems() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	tiramisu, err := db.GetMenuItemByName(ctx, "Tiramisu")
	if err != nil {
		t.Fatalf("GetMenuItemByName() error = %v", err)
	}
	if tiramisu.Available {
		t.Error("Tiramisu should be unavailable")
	}
}

func TestReservationSaveAndCount(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	reservation := &Reservation{
		ID:        "res-1",
		Name:      "Dilnoza",
		Phone:     "+998935551122",
		Date:      "2026-09-15",
		Time:      "19:00",
		Guests:    4,
		TableType: "window",
		CreatedAt: time.Now(),
	}
	if err := db.SaveReservation(ctx, reservation); err != nil {
		t.Fatalf("SaveReservation() error = %v", err)
	}

	count, err := db.CountReservationsAt(ctx, "2026-09-15", "19:00")
	if err != nil {
		t.Fatalf("CountReservationsAt() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountReservationsAt() = %d, want 1", count)
	}

	count, err = db.CountReservationsAt(ctx, "2026-09-15", "20:00")
	if err != nil {
		t.Fatalf("CountReservationsAt() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountReservationsAt() for empty slot = %d, want 0", count)
	}
}

func TestNewsletterSubscribeIdempotent(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if err := db.SubscribeNewsletter(ctx, "guest@example.com"); err != nil {
		t.Fatalf("SubscribeNewsletter() error = %v", err)
	}
	if err := db.SubscribeNewsletter(ctx, "guest@example.com"); err != nil {
		t.Fatalf("SubscribeNewsletter() second call error = %v", err)
	}

	subscribed, err := db.IsNewsletterSubscriber(ctx, "guest@example.com")
	if err != nil {
		t.Fatalf("IsNewsletterSubscriber() error = %v", err)
	}
	if !subscribed {
		t.Error("expected address to be subscribed")
	}
}

func TestThemePreference(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()

	if _, err := db.GetThemePreference(ctx, "sess-1"); !errors.Is(err, domerrors.ErrNotFound) {
		t.Errorf("GetThemePreference() before save error = %v, want ErrNotFound", err)
	}

	if err := db.SaveThemePreference(ctx, "sess-1", "dark"); err != nil {
		t.Fatalf("SaveThemePreference() error = %v", err)
	}
	if err := db.SaveThemePreference(ctx, "sess-1", "light"); err != nil {
		t.Fatalf("SaveThemePreference() update error = %v", err)
	}

	theme, err := db.GetThemePreference(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetThemePreference() error = %v", err)
	}
	if theme != "light" {
		t.Errorf("theme = %q, want %q", theme, "light")
	}
}

func TestCreateSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db, err := New(filepath.Join(dir, "fayz.db"), 168*time.Hour)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if err := db.SaveCartSnapshot(ctx, "cart:abc", "[]"); err != nil {
		t.Fatalf("SaveCartSnapshot() error = %v", err)
	}

	snapshotPath := filepath.Join(dir, "copy.db")
	if err := db.CreateSnapshot(ctx, snapshotPath); err != nil {
		t.Fatalf("CreateSnapshot() error = %v", err)
	}

	// The copy must be a usable database with the same data
	copyDB, err := New(snapshotPath, 168*time.Hour)
	if err != nil {
		t.Fatalf("open snapshot copy error = %v", err)
	}
	defer func() { _ = copyDB.Close() }()

	if _, err := copyDB.GetCartSnapshot(ctx, "cart:abc"); err != nil {
		t.Errorf("snapshot copy missing data: %v", err)
	}
}

func TestDBReady(t *testing.T) {
	t.Parallel()

	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ready(context.Background()); err != nil {
		t.Errorf("Ready() error = %v", err)
	}
}
