// Package backup periodically snapshots the SQLite database, compresses
// it with zstd and uploads it to Cloudflare R2. On a fresh host it can
// restore the latest backup before the database is opened.
package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/r2client"
	"github.com/fayzdev/fayz-go/internal/storage"
)

// Config holds backup manager configuration.
type Config struct {
	ObjectKey string        // R2 key of the backup object
	Interval  time.Duration // Time between backup runs
	TempDir   string        // Scratch space for snapshot files
}

// Manager runs the periodic backup loop.
type Manager struct {
	client  *r2client.Client
	db      *storage.DB
	metrics *metrics.Metrics
	config  Config
}

// New creates a backup manager.
func New(client *r2client.Client, db *storage.DB, m *metrics.Metrics, cfg Config) *Manager {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &Manager{
		client:  client,
		db:      db,
		metrics: m,
		config:  cfg,
	}
}

// Run uploads backups on the configured interval until the context is
// canceled. One failed run is logged and the loop continues.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.BackupOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "database backup failed", "error", err)
			}
		}
	}
}

// BackupOnce takes a consistent snapshot, compresses it and uploads it.
func (m *Manager) BackupOnce(ctx context.Context) error {
	start := time.Now()

	snapshotPath := filepath.Join(m.config.TempDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	if err := m.db.CreateSnapshot(ctx, snapshotPath); err != nil {
		m.metrics.RecordBackup("error", time.Since(start).Seconds())
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(snapshotPath)

	compressedPath := snapshotPath + ".zst"
	if err := r2client.CompressFile(snapshotPath, compressedPath); err != nil {
		m.metrics.RecordBackup("error", time.Since(start).Seconds())
		return fmt.Errorf("compress snapshot: %w", err)
	}
	defer os.Remove(compressedPath)

	compressed, err := os.Open(compressedPath)
	if err != nil {
		m.metrics.RecordBackup("error", time.Since(start).Seconds())
		return fmt.Errorf("open compressed snapshot: %w", err)
	}
	defer compressed.Close()

	etag, err := m.client.Upload(ctx, m.config.ObjectKey, compressed, "application/zstd")
	if err != nil {
		m.metrics.RecordBackup("error", time.Since(start).Seconds())
		return fmt.Errorf("upload backup: %w", err)
	}

	duration := time.Since(start)
	m.metrics.RecordBackup("success", duration.Seconds())
	slog.InfoContext(ctx, "database backup uploaded",
		"key", m.config.ObjectKey,
		"etag", etag,
		"duration_ms", duration.Milliseconds())

	return nil
}

// Restore downloads and decompresses the latest backup to dbPath.
// Call before opening the database on a fresh host. Returns false
// without error when no backup exists.
func Restore(ctx context.Context, client *r2client.Client, objectKey, dbPath string) (bool, error) {
	body, etag, err := client.Download(ctx, objectKey)
	if err != nil {
		if errors.Is(err, r2client.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("download backup: %w", err)
	}
	defer body.Close()

	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create database directory: %w", err)
		}
	}

	if err := r2client.DecompressStream(body, dbPath); err != nil {
		return false, fmt.Errorf("decompress backup: %w", err)
	}

	slog.InfoContext(ctx, "database restored from backup",
		"key", objectKey,
		"etag", etag)
	return true, nil
}
