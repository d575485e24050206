// Package main provides the Fayz ordering server entry point.
package main

import (
	"net/http"

	"github.com/fayzdev/fayz-go/internal/buildinfo"
	"github.com/fayzdev/fayz-go/internal/cart"
	"github.com/fayzdev/fayz-go/internal/checkout"
	"github.com/fayzdev/fayz-go/internal/config"
	"github.com/fayzdev/fayz-go/internal/menu"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/modules/booking"
	"github.com/fayzdev/fayz-go/internal/modules/cartapi"
	"github.com/fayzdev/fayz-go/internal/modules/checkoutapi"
	"github.com/fayzdev/fayz-go/internal/modules/contact"
	"github.com/fayzdev/fayz-go/internal/modules/menuapi"
	"github.com/fayzdev/fayz-go/internal/modules/notifications"
	"github.com/fayzdev/fayz-go/internal/modules/orders"
	"github.com/fayzdev/fayz-go/internal/modules/themeapi"
	"github.com/fayzdev/fayz-go/internal/notify"
	"github.com/fayzdev/fayz-go/internal/ratelimit"
	"github.com/fayzdev/fayz-go/internal/storage"
	"github.com/fayzdev/fayz-go/internal/theme"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routeDeps bundles everything setupRoutes wires into handlers.
type routeDeps struct {
	cfg         *config.Config
	db          *storage.DB
	registry    *prometheus.Registry
	metrics     *metrics.Metrics
	carts       *cart.Manager
	flow        *checkout.Flow
	notifier    *notify.Center
	menu        *menu.Service
	theme       *theme.Service
	formLimiter *ratelimit.KeyedLimiter
}

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, deps routeDeps) {
	// Root endpoint - service identity
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "fayz-go",
			"status":  "ok",
			"version": buildinfo.Version,
			"commit":  buildinfo.Commit,
		})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Health check endpoints
	// Liveness Probe - checks if the application is alive (minimal check)
	// This should NEVER check dependencies - only that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness Probe - checks if the application is ready to serve traffic
	readyHandler := func(c *gin.Context) {
		if err := deps.db.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		menuCount, _ := deps.db.CountMenuItems(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"catalog": gin.H{
				"menu_items": menuCount,
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// API endpoints - everything below carries an anonymous session cookie
	api := router.Group("/api")
	api.Use(sessionMiddleware())

	cartapi.NewHandler(deps.carts, deps.menu, deps.notifier, deps.metrics).RegisterRoutes(api)
	checkoutapi.NewHandler(deps.flow, deps.notifier, deps.metrics).RegisterRoutes(api)
	menuapi.NewHandler(deps.menu, deps.metrics).RegisterRoutes(api)
	themeapi.NewHandler(deps.theme, deps.metrics).RegisterRoutes(api)
	notifications.NewHandler(deps.notifier, deps.metrics).RegisterRoutes(api)
	orders.NewHandler(deps.db, deps.metrics).RegisterRoutes(api)

	// Booking and contact forms go through the simulated backend latency
	forms := api.Group("", simulatedLatencyMiddleware(deps.cfg.FormDelay))
	booking.NewHandler(deps.db, deps.notifier, deps.metrics, deps.formLimiter).RegisterRoutes(forms)
	contact.NewHandler(deps.db, deps.notifier, deps.metrics, deps.formLimiter).RegisterRoutes(forms)

	// Admin endpoints - menu management, guarded by the ops credentials.
	// Not mounted when no password is configured.
	if deps.cfg.MetricsPassword != "" {
		admin := router.Group("/admin", gin.BasicAuth(gin.Accounts{
			deps.cfg.MetricsUsername: deps.cfg.MetricsPassword,
		}))
		menuapi.NewHandler(deps.menu, deps.metrics).RegisterAdminRoutes(admin)
	}

	// Prometheus metrics endpoint with optional Basic Auth
	metricsHandler := gin.WrapH(promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))
	if deps.cfg.MetricsPassword != "" {
		authorized := router.Group("/metrics", gin.BasicAuth(gin.Accounts{
			deps.cfg.MetricsUsername: deps.cfg.MetricsPassword,
		}))
		authorized.GET("", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
