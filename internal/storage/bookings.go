package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SaveReservation persists a table booking.
func (db *DB) SaveReservation(ctx context.Context, reservation *Reservation) error {
	query := `
		INSERT INTO reservations (id, name, phone, date, time, guests, table_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		reservation.ID, reservation.Name, reservation.Phone,
		reservation.Date, reservation.Time, reservation.Guests,
		reservation.TableType, reservation.CreatedAt.Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save reservation",
			"reservation_id", reservation.ID,
			"error", err)
		return fmt.Errorf("failed to save reservation: %w", err)
	}

	// Warn on slow queries (>100ms)
	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database operation",
			"operation", "SaveReservation",
			"duration_ms", duration.Milliseconds(),
			"reservation_id", reservation.ID)
	}
	return nil
}

// CountReservationsAt counts bookings already taken for a date/time slot.
func (db *DB) CountReservationsAt(ctx context.Context, date, timeSlot string) (int, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE date = ? AND time = ?`

	var count int
	err := db.conn.QueryRowContext(ctx, query, date, timeSlot).Scan(&count)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count reservations",
			"date", date,
			"time", timeSlot,
			"error", err)
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	return count, nil
}
