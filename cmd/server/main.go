// Package main provides the Fayz ordering server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fayzdev/fayz-go/internal/backup"
	"github.com/fayzdev/fayz-go/internal/buildinfo"
	"github.com/fayzdev/fayz-go/internal/cart"
	"github.com/fayzdev/fayz-go/internal/checkout"
	"github.com/fayzdev/fayz-go/internal/config"
	"github.com/fayzdev/fayz-go/internal/logger"
	"github.com/fayzdev/fayz-go/internal/menu"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/notify"
	"github.com/fayzdev/fayz-go/internal/r2client"
	"github.com/fayzdev/fayz-go/internal/ratelimit"
	"github.com/fayzdev/fayz-go/internal/sentry"
	"github.com/fayzdev/fayz-go/internal/storage"
	"github.com/fayzdev/fayz-go/internal/theme"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeouts. Write allows for the simulated order submission
// delay plus checkout bookkeeping.
const (
	httpReadTimeout  = 10 * time.Second
	httpWriteTimeout = 30 * time.Second
	httpIdleTimeout  = 120 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.Info("Starting Fayz ordering server")

	// Initialize error tracking (no-op when no token is configured)
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.Environment,
		Release:     buildinfo.Version,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize error tracking")
	}
	defer sentry.Flush(2 * time.Second)

	// Create R2 client for database backups (optional)
	var r2 *r2client.Client
	if cfg.BackupEnabled() {
		r2, err = r2client.New(context.Background(), r2client.Config{
			Endpoint:    cfg.R2Endpoint,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2Bucket,
		})
		if err != nil {
			log.WithError(err).Error("Failed to create R2 client")
			os.Exit(1)
		}
		log.WithField("bucket", cfg.R2Bucket).Info("R2 backup client created")

		// Restore the latest snapshot when starting on a fresh host
		if _, err := os.Stat(cfg.SQLitePath()); os.IsNotExist(err) {
			restored, err := backup.Restore(context.Background(), r2, cfg.BackupObjectKey, cfg.SQLitePath())
			if err != nil {
				log.WithError(err).Warn("Failed to restore database backup, starting empty")
			} else if restored {
				log.WithField("object_key", cfg.BackupObjectKey).Info("Database restored from backup")
			}
		}
	}

	// Connect to database with configured cart TTL
	db, err := storage.New(cfg.SQLitePath(), cfg.CartTTL)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).
		WithField("cart_ttl", cfg.CartTTL).
		Info("Database connected")

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create cart manager backed by the snapshot store
	carts := cart.NewManager(db, m, cfg.TaxRate)
	log.WithField("tax_rate", cfg.TaxRate).Info("Cart manager created")

	// Create checkout flow with the simulated order backend
	submitter := checkout.NewSimulatedSubmitter(cfg.SubmitDelay)
	flow := checkout.NewFlow(carts, db, submitter, m, cfg.OrderDailyLimit)
	log.WithField("submit_delay", cfg.SubmitDelay).
		WithField("order_daily_limit", cfg.OrderDailyLimit).
		Info("Checkout flow created")

	// Create notification center
	notifier := notify.NewCenter(cfg.NotifyTTL, m)

	// Create menu service and seed the default catalog
	menuSvc := menu.NewService(db, m, cfg.MenuSearchMaxResults)
	if err := menuSvc.Seed(context.Background()); err != nil {
		log.WithError(err).Error("Failed to seed menu catalog")
		os.Exit(1)
	}
	items, _ := db.CountMenuItems(context.Background())
	log.WithField("menu_items", items).Info("Menu service created")

	// Create theme service
	themeSvc := theme.NewService(db)

	// Per-session rate limiter for form submissions
	formLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "forms",
		Burst:         cfg.SessionRateBurst,
		RefillRate:    cfg.SessionRateRefill,
		CleanupPeriod: cfg.CleanupInterval,
		Metrics:       m,
	})
	defer formLimiter.Stop()

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(sentryMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(globalRateLimitMiddleware(ratelimit.New(cfg.GlobalRateRPS, cfg.GlobalRateRPS), m))

	// Setup routes
	setupRoutes(router, routeDeps{
		cfg:         cfg,
		db:          db,
		registry:    registry,
		metrics:     m,
		carts:       carts,
		flow:        flow,
		notifier:    notifier,
		menu:        menuSvc,
		theme:       themeSvc,
		formLimiter: formLimiter,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: httpWriteTimeout,
		IdleTimeout:  httpIdleTimeout,
	}

	// Start background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Stale cart purge goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in cart purge goroutine")
			}
		}()
		purgeStaleCarts(ctx, carts, cfg.CleanupInterval, log)
	}()

	// Database backup goroutine (only when R2 is configured)
	if cfg.BackupEnabled() {
		backupMgr := backup.New(r2, db, m, backup.Config{
			ObjectKey: cfg.BackupObjectKey,
			Interval:  cfg.BackupInterval,
			TempDir:   cfg.DataDir,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithField("panic", r).Error("Panic in backup goroutine")
				}
			}()
			backupMgr.Run(ctx)
		}()
		log.WithField("interval", cfg.BackupInterval).Info("Database backup job started")
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Cancel context to stop background jobs
	cancel()

	// Wait for goroutines to finish (with timeout)
	goDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(goDone)
	}()

	select {
	case <-goDone:
		log.Info("All background goroutines stopped")
	case <-time.After(5 * time.Second):
		log.Warn("Timeout waiting for goroutines to stop")
	}

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Close database connection
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")
}
