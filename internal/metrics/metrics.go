package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Cart metrics
	CartOperationsTotal *prometheus.CounterVec
	CartItemCount       prometheus.Histogram
	SnapshotCorruptions prometheus.Counter

	// Order metrics
	OrdersTotal           *prometheus.CounterVec
	OrderValue            prometheus.Histogram
	OrderSubmitDuration   prometheus.Histogram
	CheckoutRejectedTotal *prometheus.CounterVec

	// Notification metrics
	NotificationsTotal *prometheus.CounterVec

	// Form metrics
	FormSubmissionsTotal *prometheus.CounterVec

	// Menu search metrics
	MenuSearchesTotal      *prometheus.CounterVec
	SingleflightDedupTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// Backup metrics
	BackupTotal    *prometheus.CounterVec
	BackupDuration prometheus.Histogram
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Cart metrics
		CartOperationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fayz_cart_operations_total",
				Help: "Total number of cart mutations by operation and status",
			},
			[]string{"operation", "status"}, // operation: add, remove, update_quantity, clear
		),

		CartItemCount: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fayz_cart_item_count",
				Help:    "Distinct line items in the cart at mutation time",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),

		SnapshotCorruptions: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "fayz_cart_snapshot_corruptions_total",
				Help: "Total number of persisted cart snapshots discarded as unparsable",
			},
		),

		// Order metrics
		OrdersTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fayz_orders_total",
				Help: "Total number of order submissions by outcome",
			},
			[]string{"status"}, // status: success, failure, canceled
		),

		OrderValue: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fayz_order_value",
				Help:    "Grand total of successfully placed orders",
				Buckets: []float64{5, 10, 20, 50, 100, 200, 500},
			},
		),

		OrderSubmitDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fayz_order_submit_duration_seconds",
				Help:    "Order endpoint round-trip duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 3, 5, 10}, // Matches simulated 2s endpoint latency
			},
		),

		CheckoutRejectedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fayz_checkout_rejected_total",
				Help: "Total number of rejected checkout attempts by reason",
			},
			[]string{"reason"}, // reason: empty_cart, in_flight, rate_limited
		),

		// Notification metrics
		NotificationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fayz_notifications_total",
				Help: "Total number of notifications shown by kind",
			},
			[]string{"kind"}, // kind: success, error, warning, info
		),

		// Form metrics
		FormSubmissionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fayz_form_submissions_total",
				Help: "Total number of form submissions by form and status",
			},
			[]string{"form", "status"}, // form: reservation, contact, newsletter
		),

		// Menu search metrics
		MenuSearchesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fayz_menu_searches_total",
				Help: "Total number of menu searches by status",
			},
			[]string{"status"}, // status: hit, miss, error
		),

		SingleflightDedupTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fayz_singleflight_dedup_total",
				Help: "Total number of deduplicated requests (requests that waited instead of executing)",
			},
			[]string{"module"},
		),

		// HTTP metrics
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fayz_http_errors_total",
				Help: "Total HTTP errors by type and module",
			},
			[]string{"error_type", "module"}, // error_type: validation, rate_limit, internal, etc.
		),

		// Rate limiter metrics
		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fayz_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: session, global
		),

		// Backup metrics
		BackupTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fayz_backup_total",
				Help: "Total number of database backup runs by status",
			},
			[]string{"status"}, // status: success, error
		),

		BackupDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fayz_backup_duration_seconds",
				Help:    "Duration of database backup runs",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
		),
	}

	return m
}

// RecordCartOperation records a cart mutation with its outcome and the
// resulting number of distinct line items.
func (m *Metrics) RecordCartOperation(operation, status string, itemCount int) {
	m.CartOperationsTotal.WithLabelValues(operation, status).Inc()
	if status == "success" {
		m.CartItemCount.Observe(float64(itemCount))
	}
}

// RecordSnapshotCorruption records a discarded unparsable cart snapshot
func (m *Metrics) RecordSnapshotCorruption() {
	m.SnapshotCorruptions.Inc()
}

// RecordOrder records an order submission outcome
func (m *Metrics) RecordOrder(status string, grandTotal, duration float64) {
	m.OrdersTotal.WithLabelValues(status).Inc()
	m.OrderSubmitDuration.Observe(duration)
	if status == "success" {
		m.OrderValue.Observe(grandTotal)
	}
}

// RecordCheckoutRejected records a rejected checkout attempt
func (m *Metrics) RecordCheckoutRejected(reason string) {
	m.CheckoutRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordNotification records a notification being shown
func (m *Metrics) RecordNotification(kind string) {
	m.NotificationsTotal.WithLabelValues(kind).Inc()
}

// RecordFormSubmission records a form submission outcome
func (m *Metrics) RecordFormSubmission(form, status string) {
	m.FormSubmissionsTotal.WithLabelValues(form, status).Inc()
}

// RecordMenuSearch records a menu search outcome
func (m *Metrics) RecordMenuSearch(status string) {
	m.MenuSearchesTotal.WithLabelValues(status).Inc()
}

// RecordSingleflightDedup records a deduplicated request
func (m *Metrics) RecordSingleflightDedup(module string) {
	m.SingleflightDedupTotal.WithLabelValues(module).Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, module string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, module).Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// RecordBackup records a backup run
func (m *Metrics) RecordBackup(status string, duration float64) {
	m.BackupTotal.WithLabelValues(status).Inc()
	m.BackupDuration.Observe(duration)
}
