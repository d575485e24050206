package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go's New function.
func InitSchema(db *sql.DB) error {
	// Create cart_snapshots table
	if err := createCartSnapshotsTable(db); err != nil {
		return err
	}

	// Create orders table
	if err := createOrdersTable(db); err != nil {
		return err
	}

	// Create menu_items table
	if err := createMenuItemsTable(db); err != nil {
		return err
	}

	// Create reservations table
	if err := createReservationsTable(db); err != nil {
		return err
	}

	// Create contact_messages and newsletter_subscribers tables
	if err := createContactTables(db); err != nil {
		return err
	}

	// Create theme_preferences table
	return createThemePreferencesTable(db)
}

func createCartSnapshotsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS cart_snapshots (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cart_snapshots_updated_at ON cart_snapshots(updated_at);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create cart_snapshots table: %w", err)
	}

	return nil
}

func createOrdersTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		customer TEXT NOT NULL,
		items TEXT NOT NULL,
		subtotal REAL NOT NULL,
		tax REAL NOT NULL,
		grand_total REAL NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_session ON orders(session_id);
	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}

	return nil
}

func createMenuItemsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS menu_items (
		name TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		price REAL NOT NULL,
		description TEXT,
		available INTEGER NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items(category, sort_order);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create menu_items table: %w", err)
	}

	return nil
}

func createReservationsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		guests INTEGER NOT NULL,
		table_type TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations(date, time);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create reservations table: %w", err)
	}

	return nil
}

func createContactTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS contact_messages (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_contact_messages_created_at ON contact_messages(created_at);

	CREATE TABLE IF NOT EXISTS newsletter_subscribers (
		email TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL
	);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create contact tables: %w", err)
	}

	return nil
}

func createThemePreferencesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS theme_preferences (
		session_id TEXT PRIMARY KEY,
		theme TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create theme_preferences table: %w", err)
	}

	return nil
}
