package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
)

// SaveMenuItem inserts or updates a single menu item.
func (db *DB) SaveMenuItem(ctx context.Context, item *MenuItem) error {
	query := `
		INSERT INTO menu_items (name, category, price, description, available, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			category = excluded.category,
			price = excluded.price,
			description = excluded.description,
			available = excluded.available,
			sort_order = excluded.sort_order
	`
	_, err := db.conn.ExecContext(ctx, query,
		item.Name, item.Category, item.Price, item.Description, boolToInt(item.Available), item.SortOrder)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save menu item",
			"name", item.Name,
			"error", err)
		return fmt.Errorf("failed to save menu item: %w", err)
	}

	return nil
}

// SaveMenuItemsBatch upserts menu items in a single transaction.
// Used by the startup seeder.
func (db *DB) SaveMenuItemsBatch(ctx context.Context, items []*MenuItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO menu_items (name, category, price, description, available, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			category = excluded.category,
			price = excluded.price,
			description = excluded.description,
			available = excluded.available,
			sort_order = excluded.sort_order
	`

	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin menu batch transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare menu batch statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx,
			item.Name, item.Category, item.Price, item.Description, boolToInt(item.Available), item.SortOrder); err != nil {
			slog.ErrorContext(ctx, "failed to save menu item in batch",
				"name", item.Name,
				"error", err)
			return fmt.Errorf("failed to save menu item %s: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit menu batch: %w", err)
	}

	slog.DebugContext(ctx, "batch operation completed",
		"operation", "SaveMenuItemsBatch",
		"count", len(items),
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

// GetMenuItemByName retrieves a menu item by its exact name.
// Returns ErrNotFound when the item does not exist.
func (db *DB) GetMenuItemByName(ctx context.Context, name string) (*MenuItem, error) {
	query := `
		SELECT name, category, price, description, available, sort_order
		FROM menu_items WHERE name = ?
	`

	var (
		item      MenuItem
		available int
	)
	err := db.conn.QueryRowContext(ctx, query, name).Scan(
		&item.Name, &item.Category, &item.Price, &item.Description, &available, &item.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query menu item",
			"name", name,
			"error", err)
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}
	item.Available = available != 0

	return &item, nil
}

// ListMenuItems returns the full menu in display order.
func (db *DB) ListMenuItems(ctx context.Context) ([]*MenuItem, error) {
	query := `
		SELECT name, category, price, description, available, sort_order
		FROM menu_items
		ORDER BY category, sort_order, name
	`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query menu items", "error", err)
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*MenuItem
	for rows.Next() {
		var (
			item      MenuItem
			available int
		)
		if err := rows.Scan(
			&item.Name, &item.Category, &item.Price, &item.Description, &available, &item.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan menu item row: %w", err)
		}
		item.Available = available != 0
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu item rows: %w", err)
	}

	return items, nil
}

// CountMenuItems returns the number of menu items.
// The seeder uses this to decide whether to load the default catalog.
func (db *DB) CountMenuItems(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
