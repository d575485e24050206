// Package sentry wires the Sentry Go SDK to Better Stack's error
// collection endpoint and hides the DSN plumbing from callers.
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config describes the Better Stack error tracking setup.
type Config struct {
	// Token is the Better Stack Errors application token.
	Token string

	// Host is the Better Stack ingest host, e.g. "errors.betterstack.com".
	Host string

	// Environment names the deployment ("production", "staging", ...).
	Environment string

	// Release is the version string attached to every event.
	Release string

	// SampleRate controls error sampling; zero means sample everything.
	SampleRate float64

	// Debug turns on SDK debug logging.
	Debug bool
}

// Initialize configures the global Sentry client. An empty Token leaves
// error tracking disabled and returns nil.
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil // error tracking disabled
	}

	if cfg.Host == "" {
		return fmt.Errorf("sentry host is required when token is provided")
	}

	// Better Stack ignores the project id segment, but the SDK
	// requires one, so the DSN always ends in /1.
	dsn := fmt.Sprintf("https://%s@%s/1", cfg.Token, cfg.Host)

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// Flush blocks until buffered events are delivered or the timeout
// passes, reporting whether everything made it out.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled reports whether a Sentry client is active.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureException reports an error to Sentry.
func CaptureException(err error) {
	sentry.CaptureException(err)
}

// CaptureExceptionWithContext reports an error through the hub bound to
// ctx, falling back to the global hub when the request has none.
func CaptureExceptionWithContext(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// CaptureMessage reports a plain message to Sentry.
func CaptureMessage(message string) {
	sentry.CaptureMessage(message)
}
