package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SaveContactMessage persists a contact-form submission.
func (db *DB) SaveContactMessage(ctx context.Context, msg *ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, first_name, last_name, email, subject, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.conn.ExecContext(ctx, query,
		msg.ID, msg.FirstName, msg.LastName, msg.Email, msg.Subject, msg.Body, msg.CreatedAt.Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save contact message",
			"message_id", msg.ID,
			"error", err)
		return fmt.Errorf("failed to save contact message: %w", err)
	}

	return nil
}

// SubscribeNewsletter records a newsletter signup.
// Subscribing the same address twice is a no-op, not an error.
func (db *DB) SubscribeNewsletter(ctx context.Context, email string) error {
	query := `
		INSERT INTO newsletter_subscribers (email, created_at)
		VALUES (?, ?)
		ON CONFLICT(email) DO NOTHING
	`
	_, err := db.conn.ExecContext(ctx, query, email, time.Now().Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save newsletter subscriber", "error", err)
		return fmt.Errorf("failed to save newsletter subscriber: %w", err)
	}

	return nil
}

// IsNewsletterSubscriber reports whether an address is already subscribed.
func (db *DB) IsNewsletterSubscriber(ctx context.Context, email string) (bool, error) {
	query := `SELECT COUNT(*) FROM newsletter_subscribers WHERE email = ?`

	var count int
	if err := db.conn.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query newsletter subscriber: %w", err)
	}

	return count > 0, nil
}
