// Command verify runs consistency checks against the ordering database:
// menu catalog sanity, stored order totals versus recomputation, and
// cart snapshot decodability. Exits non-zero when any check fails.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/fayzdev/fayz-go/internal/cart"
	"github.com/fayzdev/fayz-go/internal/config"
	"github.com/fayzdev/fayz-go/internal/storage"
)

// totalTolerance absorbs float round-trip noise through SQLite REAL columns.
const totalTolerance = 1e-6

// verifyLimit caps how many recent orders are checked per run.
const verifyLimit = 500

type verifyResult struct {
	name    string
	passed  bool
	message string
}

func main() {
	fmt.Println("Fayz ordering database consistency check")
	fmt.Println("=========================================")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := storage.New(cfg.SQLitePath(), cfg.CartTTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	results := []verifyResult{
		checkMenuCatalog(ctx, db),
		checkOrderTotals(ctx, db),
		checkCartSnapshots(db),
	}

	failed := 0
	for _, r := range results {
		status := "PASS"
		if !r.passed {
			status = "FAIL"
			failed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.name, r.message)
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d checks failed\n", failed, len(results))
		os.Exit(1)
	}
	fmt.Printf("\nAll %d checks passed\n", len(results))
}

// checkMenuCatalog verifies the catalog is seeded and every item carries
// a positive price.
func checkMenuCatalog(ctx context.Context, db *storage.DB) verifyResult {
	const name = "menu catalog"

	items, err := db.ListMenuItems(ctx)
	if err != nil {
		return verifyResult{name: name, message: err.Error()}
	}
	if len(items) == 0 {
		return verifyResult{name: name, message: "catalog is empty, run the server once to seed it"}
	}

	for _, item := range items {
		if item.Price <= 0 {
			return verifyResult{name: name, message: fmt.Sprintf("item %q has non-positive price %.2f", item.Name, item.Price)}
		}
	}

	return verifyResult{
		name:    name,
		passed:  true,
		message: fmt.Sprintf("%d items, all prices positive", len(items)),
	}
}

// checkOrderTotals recomputes each stored order's totals from its line
// items and compares against the persisted values.
func checkOrderTotals(ctx context.Context, db *storage.DB) verifyResult {
	const name = "order totals"

	orders, err := db.ListRecentOrders(ctx, verifyLimit)
	if err != nil {
		return verifyResult{name: name, message: err.Error()}
	}

	for _, order := range orders {
		if order.Subtotal == 0 {
			return verifyResult{name: name, message: fmt.Sprintf("order %s has zero subtotal", order.ID)}
		}

		items := make([]cart.Item, 0, len(order.Items))
		for _, line := range order.Items {
			items = append(items, cart.Item{Name: line.Name, Price: line.Price, Quantity: line.Quantity})
		}

		// Recover the rate the order was taxed at rather than assuming
		// the currently configured one; old orders may predate a change.
		rate := order.Tax / order.Subtotal
		view := cart.Render(items, rate)

		if math.Abs(view.Subtotal-order.Subtotal) > totalTolerance ||
			math.Abs(view.GrandTotal-order.GrandTotal) > totalTolerance {
			return verifyResult{
				name: name,
				message: fmt.Sprintf("order %s totals drifted: stored %.4f/%.4f, recomputed %.4f/%.4f",
					order.ID, order.Subtotal, order.GrandTotal, view.Subtotal, view.GrandTotal),
			}
		}
	}

	return verifyResult{
		name:    name,
		passed:  true,
		message: fmt.Sprintf("%d orders recomputed cleanly", len(orders)),
	}
}

// checkCartSnapshots decodes every persisted cart snapshot the way the
// cart manager would on restore.
func checkCartSnapshots(db *storage.DB) verifyResult {
	const name = "cart snapshots"

	rows, err := db.Query(`SELECT key, payload FROM cart_snapshots`)
	if err != nil {
		return verifyResult{name: name, message: err.Error()}
	}
	defer func() { _ = rows.Close() }()

	total := 0
	corrupt := 0
	for rows.Next() {
		var key, payload string
		if err := rows.Scan(&key, &payload); err != nil {
			return verifyResult{name: name, message: err.Error()}
		}
		total++

		var items []cart.Item
		if err := json.Unmarshal([]byte(payload), &items); err != nil {
			corrupt++
			fmt.Printf("  corrupt snapshot %s: %v\n", key, err)
		}
	}
	if err := rows.Err(); err != nil {
		return verifyResult{name: name, message: err.Error()}
	}

	if corrupt > 0 {
		return verifyResult{
			name:    name,
			message: fmt.Sprintf("%d of %d snapshots undecodable (the server clears them lazily on next load)", corrupt, total),
		}
	}
	return verifyResult{
		name:    name,
		passed:  true,
		message: fmt.Sprintf("%d snapshots decode cleanly", total),
	}
}
