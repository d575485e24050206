package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
)

// SaveOrder persists a completed order.
func (db *DB) SaveOrder(ctx context.Context, order *Order) error {
	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("failed to marshal order customer: %w", err)
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `
		INSERT INTO orders (id, session_id, customer, items, subtotal, tax, grand_total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	start := time.Now()
	_, err = db.conn.ExecContext(ctx, query,
		order.ID, order.SessionID, string(customer), string(items),
		order.Subtotal, order.Tax, order.GrandTotal, order.CreatedAt.Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save order",
			"order_id", order.ID,
			"error", err)
		return fmt.Errorf("failed to save order: %w", err)
	}

	// Warn on slow queries (>100ms)
	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database operation",
			"operation", "SaveOrder",
			"duration_ms", duration.Milliseconds(),
			"order_id", order.ID)
	}
	return nil
}

// GetOrderByID retrieves a single order.
// Returns ErrNotFound when the order does not exist.
func (db *DB) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	query := `
		SELECT id, session_id, customer, items, subtotal, tax, grand_total, created_at
		FROM orders WHERE id = ?
	`

	var (
		order     Order
		customer  string
		items     string
		createdAt int64
	)
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.SessionID, &customer, &items,
		&order.Subtotal, &order.Tax, &order.GrandTotal, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query order",
			"order_id", id,
			"error", err)
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := json.Unmarshal([]byte(customer), &order.Customer); err != nil {
		return nil, fmt.Errorf("failed to decode order customer: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	order.CreatedAt = time.Unix(createdAt, 0)

	return &order, nil
}

// ListOrdersBySession returns a session's orders, newest first.
func (db *DB) ListOrdersBySession(ctx context.Context, sessionID string, limit int) ([]*Order, error) {
	query := `
		SELECT id, session_id, customer, items, subtotal, tax, grand_total, created_at
		FROM orders WHERE session_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := db.conn.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query session orders",
			"session_id", sessionID,
			"error", err)
		return nil, fmt.Errorf("failed to query session orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []*Order
	for rows.Next() {
		var (
			order     Order
			customer  string
			items     string
			createdAt int64
		)
		if err := rows.Scan(
			&order.ID, &order.SessionID, &customer, &items,
			&order.Subtotal, &order.Tax, &order.GrandTotal, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		if err := json.Unmarshal([]byte(customer), &order.Customer); err != nil {
			return nil, fmt.Errorf("failed to decode order customer: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
		order.CreatedAt = time.Unix(createdAt, 0)
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}

	return orders, nil
}

// ListRecentOrders returns the most recent orders across all sessions,
// newest first. Used by operational tooling.
func (db *DB) ListRecentOrders(ctx context.Context, limit int) ([]*Order, error) {
	query := `
		SELECT id, session_id, customer, items, subtotal, tax, grand_total, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query recent orders", "error", err)
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []*Order
	for rows.Next() {
		var (
			order     Order
			customer  string
			items     string
			createdAt int64
		)
		if err := rows.Scan(
			&order.ID, &order.SessionID, &customer, &items,
			&order.Subtotal, &order.Tax, &order.GrandTotal, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		if err := json.Unmarshal([]byte(customer), &order.Customer); err != nil {
			return nil, fmt.Errorf("failed to decode order customer: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
		order.CreatedAt = time.Unix(createdAt, 0)
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}

	return orders, nil
}

// CountOrdersSince counts a session's orders created at or after the cutoff.
// Used by the daily order cap.
func (db *DB) CountOrdersSince(ctx context.Context, sessionID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE session_id = ? AND created_at >= ?`

	var count int
	err := db.conn.QueryRowContext(ctx, query, sessionID, since.Unix()).Scan(&count)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count session orders",
			"session_id", sessionID,
			"error", err)
		return 0, fmt.Errorf("failed to count session orders: %w", err)
	}

	return count, nil
}
