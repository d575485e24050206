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

// SaveThemePreference records a session's explicit theme choice.
func (db *DB) SaveThemePreference(ctx context.Context, sessionID, theme string) error {
	query := `
		INSERT INTO theme_preferences (session_id, theme, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			theme = excluded.theme,
			updated_at = excluded.updated_at
	`
	_, err := db.conn.ExecContext(ctx, query, sessionID, theme, time.Now().Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save theme preference",
			"session_id", sessionID,
			"error", err)
		return fmt.Errorf("failed to save theme preference: %w", err)
	}

	return nil
}

// DeleteThemePreference drops a session's saved theme so resolution
// falls back to the clock. Deleting a preference that was never saved
// is not an error.
func (db *DB) DeleteThemePreference(ctx context.Context, sessionID string) error {
	query := `DELETE FROM theme_preferences WHERE session_id = ?`

	_, err := db.conn.ExecContext(ctx, query, sessionID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete theme preference",
			"session_id", sessionID,
			"error", err)
		return fmt.Errorf("failed to delete theme preference: %w", err)
	}

	return nil
}

// GetThemePreference returns a session's saved theme.
// Returns ErrNotFound when the session has never picked one.
func (db *DB) GetThemePreference(ctx context.Context, sessionID string) (string, error) {
	query := `SELECT theme FROM theme_preferences WHERE session_id = ?`

	var theme string
	err := db.conn.QueryRowContext(ctx, query, sessionID).Scan(&theme)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query theme preference",
			"session_id", sessionID,
			"error", err)
		return "", fmt.Errorf("failed to query theme preference: %w", err)
	}

	return theme, nil
}
