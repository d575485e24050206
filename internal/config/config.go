// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, ordering rules, rate limits, and backup settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	Environment     string // Deployment environment ("production", "staging", ...)
	ShutdownTimeout time.Duration

	// Observability
	BetterStackToken    string // Better Stack log shipping token (empty = stdout only)
	BetterStackEndpoint string // Better Stack ingesting host
	SentryToken         string // Better Stack Errors token (empty = Sentry disabled)
	SentryHost          string // Better Stack Errors ingesting host

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Data Configuration
	DataDir string        // Data directory for the SQLite database
	CartTTL time.Duration // Carts idle longer than this are purged (default: 7 days)

	// Ordering Configuration
	TaxRate     float64       // Flat tax rate applied to the cart subtotal (default: 8.5%)
	SubmitDelay time.Duration // Simulated order endpoint latency (default: 2s)
	FormDelay   time.Duration // Simulated booking/contact endpoint latency (default: 1.5s)
	NotifyTTL   time.Duration // Notification auto-dismiss delay (default: 4s)

	// Rate Limits (Token Bucket Algorithm)
	GlobalRateRPS        float64 // Global rate limit in requests per second (default: 100)
	SessionRateBurst     float64 // Maximum burst tokens per session (default: 15)
	SessionRateRefill    float64 // Tokens refilled per second per session (default: 0.5)
	OrderDailyLimit      int     // Maximum orders per session per rolling 24h (0 = disabled)
	CleanupInterval      time.Duration
	MenuSearchMaxResults int // Maximum hits returned by menu search (default: 10)

	// Backup Configuration (R2 object storage)
	R2Enabled       bool
	R2Endpoint      string
	R2AccessKeyID   string
	R2SecretKey     string
	R2Bucket        string
	BackupInterval  time.Duration // How often the orders database is backed up
	BackupObjectKey string        // Object key for the compressed database snapshot
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Server Configuration
		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		Environment:     getEnv(EnvEnvironment, "production"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),

		// Observability
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, "https://in.logs.betterstack.com"),
		SentryToken:         getEnv(EnvSentryToken, ""),
		SentryHost:          getEnv(EnvSentryHost, "errors.betterstack.com"),

		// Metrics Authentication
		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		// Data Configuration
		DataDir: getEnv(EnvDataDir, getDefaultDataDir()),
		CartTTL: getDurationEnv(EnvCartTTL, 168*time.Hour), // 7 days

		// Ordering Configuration
		TaxRate:     getFloatEnv(EnvTaxRate, 0.085),
		SubmitDelay: getDurationEnv(EnvSubmitDelay, 2*time.Second),
		FormDelay:   getDurationEnv(EnvFormDelay, 1500*time.Millisecond),
		NotifyTTL:   getDurationEnv(EnvNotifyTTL, 4*time.Second),

		// Rate Limits
		GlobalRateRPS:        getFloatEnv(EnvGlobalRateRPS, 100.0),
		SessionRateBurst:     getFloatEnv(EnvSessionRateBurst, 15.0),
		SessionRateRefill:    getFloatEnv(EnvSessionRateRefill, 0.5),
		OrderDailyLimit:      getIntEnv(EnvOrderDailyLimit, 20),
		CleanupInterval:      getDurationEnv(EnvCleanupInterval, time.Hour),
		MenuSearchMaxResults: getIntEnv(EnvMenuSearchMaxResults, 10),

		// Backup Configuration
		R2Enabled:       getBoolEnv(EnvR2Enabled, false),
		R2Endpoint:      getEnv(EnvR2Endpoint, ""),
		R2AccessKeyID:   getEnv(EnvR2AccessKeyID, ""),
		R2SecretKey:     getEnv(EnvR2SecretAccessKey, ""),
		R2Bucket:        getEnv(EnvR2Bucket, ""),
		BackupInterval:  getDurationEnv(EnvBackupInterval, time.Hour),
		BackupObjectKey: getEnv(EnvBackupObjectKey, "backups/fayz.db.zst"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	if c.CartTTL <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvCartTTL, c.CartTTL))
	}
	if c.TaxRate < 0 || c.TaxRate >= 1 {
		errs = append(errs, fmt.Errorf("%s must be in [0, 1), got %v", EnvTaxRate, c.TaxRate))
	}
	if c.SubmitDelay < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %v", EnvSubmitDelay, c.SubmitDelay))
	}
	if c.NotifyTTL <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvNotifyTTL, c.NotifyTTL))
	}
	if c.OrderDailyLimit < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvOrderDailyLimit, c.OrderDailyLimit))
	}
	if c.R2Enabled {
		if c.R2Endpoint == "" || c.R2AccessKeyID == "" || c.R2SecretKey == "" || c.R2Bucket == "" {
			errs = append(errs, errors.New("R2 backup enabled but endpoint/credentials/bucket incomplete"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "fayz.db")
}

// BackupEnabled returns true if the R2 backup job should run.
func (c *Config) BackupEnabled() bool {
	return c.R2Enabled && c.BackupInterval > 0
}
