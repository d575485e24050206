// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "FAYZ_PORT"
	EnvLogLevel        = "FAYZ_LOG_LEVEL"
	EnvEnvironment     = "FAYZ_ENVIRONMENT"
	EnvShutdownTimeout = "FAYZ_SHUTDOWN_TIMEOUT"

	// Observability
	EnvBetterStackToken    = "FAYZ_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "FAYZ_BETTERSTACK_ENDPOINT"
	EnvSentryToken         = "FAYZ_SENTRY_TOKEN"
	EnvSentryHost          = "FAYZ_SENTRY_HOST"
	EnvMetricsUsername     = "FAYZ_METRICS_USERNAME"
	EnvMetricsPassword     = "FAYZ_METRICS_PASSWORD"

	// Data
	EnvDataDir = "FAYZ_DATA_DIR"
	EnvCartTTL = "FAYZ_CART_TTL"

	// Ordering
	EnvTaxRate     = "FAYZ_TAX_RATE"
	EnvSubmitDelay = "FAYZ_SUBMIT_DELAY"
	EnvFormDelay   = "FAYZ_FORM_DELAY"
	EnvNotifyTTL   = "FAYZ_NOTIFY_TTL"

	// Rate Limits
	EnvGlobalRateRPS     = "FAYZ_GLOBAL_RATE_RPS"
	EnvSessionRateBurst  = "FAYZ_SESSION_RATE_BURST"
	EnvSessionRateRefill = "FAYZ_SESSION_RATE_REFILL"
	EnvOrderDailyLimit   = "FAYZ_ORDER_DAILY_LIMIT"

	// Background Tasks
	EnvCleanupInterval = "FAYZ_CLEANUP_INTERVAL"
	EnvBackupInterval  = "FAYZ_BACKUP_INTERVAL"

	// Menu
	EnvMenuSearchMaxResults = "FAYZ_MENU_SEARCH_MAX_RESULTS"

	// R2 Backup
	EnvR2Enabled         = "FAYZ_R2_ENABLED"
	EnvR2Endpoint        = "FAYZ_R2_ENDPOINT"
	EnvR2AccessKeyID     = "FAYZ_R2_ACCESS_KEY_ID"
	EnvR2SecretAccessKey = "FAYZ_R2_SECRET_ACCESS_KEY"
	EnvR2Bucket          = "FAYZ_R2_BUCKET"
	EnvBackupObjectKey   = "FAYZ_BACKUP_OBJECT_KEY"
)
