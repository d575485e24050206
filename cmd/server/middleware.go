// Package main provides the Fayz ordering server entry point.
package main

import (
	"net/http"
	"time"

	"github.com/fayzdev/fayz-go/internal/ctxutil"
	"github.com/fayzdev/fayz-go/internal/logger"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/ratelimit"
	"github.com/fayzdev/fayz-go/internal/sentry"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sessionCookieName carries the anonymous session identifier. Each browser
// gets one on first contact; carts, orders, and preferences key off it.
const sessionCookieName = "fayz_session"

// sessionCookieMaxAge matches the default cart TTL of 7 days.
const sessionCookieMaxAge = 7 * 24 * 60 * 60

// sentryMiddleware reports panics and request context to error tracking.
// Pass-through when no token is configured.
func sentryMiddleware() gin.HandlerFunc {
	if !sentry.IsEnabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

// securityHeadersMiddleware adds security headers to all responses
// Reference: https://gin-gonic.com/en/docs/examples/security-headers
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")
		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")
		// Enable XSS filter in browsers
		c.Header("X-XSS-Protection", "1; mode=block")
		// Strict referrer policy
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// Restrict permissions
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		// Content Security Policy - prevent XSS attacks
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		// Log request
		duration := time.Since(start)
		status := c.Writer.Status()

		entry := log.WithField("method", method).
			WithField("path", path).
			WithField("status", status).
			WithField("duration_ms", duration.Milliseconds()).
			WithField("ip", c.ClientIP()).
			WithField("session_id", c.GetString("session_id"))

		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Error("Request completed with errors")
		} else {
			switch {
			case status >= 500:
				entry.Error("Request failed")
			case status >= 400:
				entry.Warn("Request completed with client error")
			default:
				entry.Debug("Request completed")
			}
		}
	}
}

// globalRateLimitMiddleware caps total request throughput across all
// sessions. Per-session form limits are enforced separately inside the
// booking and contact modules.
func globalRateLimitMiddleware(limiter *ratelimit.Limiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			m.RecordRateLimiterDrop("global")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}

// sessionMiddleware assigns an anonymous session ID cookie on first
// contact and threads it through the gin context and request context so
// handlers and log records can pick it up.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(sessionCookieName, sessionID, sessionCookieMaxAge, "/", "", false, true)
		}

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		c.Set("session_id", sessionID)

		ctx := ctxutil.WithSessionID(c.Request.Context(), sessionID)
		ctx = ctxutil.WithRequestID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// simulatedLatencyMiddleware delays form endpoints to mimic a slow
// upstream processor, matching the latency of the real booking backend.
func simulatedLatencyMiddleware(delay time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-c.Request.Context().Done():
				c.AbortWithStatus(http.StatusRequestTimeout)
				return
			}
		}
		c.Next()
	}
}
