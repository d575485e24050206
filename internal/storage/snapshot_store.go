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

// SaveCartSnapshot inserts or replaces the serialized cart for a key.
// The payload is opaque JSON; validation happens at the cart layer so a
// corrupt row can be detected and discarded on read.
func (db *DB) SaveCartSnapshot(ctx context.Context, key, payload string) error {
	query := `
		INSERT INTO cart_snapshots (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query, key, payload, time.Now().Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save cart snapshot",
			"key", key,
			"error", err)
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}

	// Warn on slow queries (>100ms)
	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database operation",
			"operation", "SaveCartSnapshot",
			"duration_ms", duration.Milliseconds(),
			"key", key)
	}
	return nil
}

// GetCartSnapshot returns the serialized cart for a key.
// Returns ErrNotFound when no snapshot exists.
func (db *DB) GetCartSnapshot(ctx context.Context, key string) (string, error) {
	query := `SELECT payload FROM cart_snapshots WHERE key = ?`

	var payload string
	err := db.conn.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query cart snapshot",
			"key", key,
			"error", err)
		return "", fmt.Errorf("failed to query cart snapshot: %w", err)
	}

	return payload, nil
}

// DeleteCartSnapshot removes the snapshot for a key.
// Deleting a missing key is not an error.
func (db *DB) DeleteCartSnapshot(ctx context.Context, key string) error {
	query := `DELETE FROM cart_snapshots WHERE key = ?`

	if _, err := db.conn.ExecContext(ctx, query, key); err != nil {
		slog.ErrorContext(ctx, "failed to delete cart snapshot",
			"key", key,
			"error", err)
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}

	return nil
}

// PurgeStaleCartSnapshots deletes snapshots idle longer than the cart TTL.
// Returns the purged keys so in-memory caches can drop them too.
func (db *DB) PurgeStaleCartSnapshots(ctx context.Context) ([]string, error) {
	cutoff := db.getTTLTimestamp()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT key FROM cart_snapshots WHERE updated_at < ?`, cutoff)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list stale cart snapshots", "error", err)
		return nil, fmt.Errorf("failed to list stale cart snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot keys: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM cart_snapshots WHERE updated_at < ?`, cutoff); err != nil {
		slog.ErrorContext(ctx, "failed to purge stale cart snapshots", "error", err)
		return nil, fmt.Errorf("failed to purge stale cart snapshots: %w", err)
	}

	return keys, nil
}
