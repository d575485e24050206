package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fayzdev/fayz-go/internal/ctxutil"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logLevel string
	}{
		{
			name:     "Valid debug level",
			level:    "debug",
			logLevel: "debug",
		},
		{
			name:     "Valid info level",
			level:    "info",
			logLevel: "info",
		},
		{
			name:     "Valid warn level",
			level:    "warn",
			logLevel: "warning",
		},
		{
			name:     "Valid error level",
			level:    "error",
			logLevel: "error",
		},
		{
			name:     "Invalid level defaults to info",
			level:    "invalid",
			logLevel: "info",
		},
		{
			name:     "Empty level defaults to info",
			level:    "",
			logLevel: "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.level, &buf)

			switch tt.logLevel {
			case "debug":
				log.Debug("probe")
			case "warning":
				log.Warn("probe")
			case "error":
				log.Error("probe")
			default:
				log.Info("probe")
			}

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("expected JSON log output, got %q: %v", buf.String(), err)
			}

			if entry["level"] != tt.logLevel {
				t.Errorf("expected level %q, got %v", tt.logLevel, entry["level"])
			}
			if entry["message"] != "probe" {
				t.Errorf("expected message 'probe', got %v", entry["message"])
			}
			if _, ok := entry["timestamp"]; !ok {
				t.Error("expected timestamp key in log entry")
			}
		})
	}
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("cart").
		WithSessionID("sess-9").
		WithField("item", "Plov").
		Info("item added")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if entry["module"] != "cart" {
		t.Errorf("expected module 'cart', got %v", entry["module"])
	}
	if entry["session_id"] != "sess-9" {
		t.Errorf("expected session_id 'sess-9', got %v", entry["session_id"])
	}
	if entry["item"] != "Plov" {
		t.Errorf("expected item 'Plov', got %v", entry["item"])
	}
}

func TestContextHandlerExtractsTracingValues(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	ctx := ctxutil.WithSessionID(context.Background(), "sess-1")
	ctx = ctxutil.WithRequestID(ctx, "req-1")
	ctx = ctxutil.WithOrderID(ctx, "ord-1")

	log.InfoContext(ctx, "submitting order")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if entry["session_id"] != "sess-1" {
		t.Errorf("expected session_id from context, got %v", entry["session_id"])
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("expected request_id from context, got %v", entry["request_id"])
	}
	if entry["order_id"] != "ord-1" {
		t.Errorf("expected order_id from context, got %v", entry["order_id"])
	}
}

func TestContextHandlerOmitsAbsentValues(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.InfoContext(context.Background(), "plain entry")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	for _, key := range []string{"session_id", "request_id", "order_id"} {
		if _, ok := entry[key]; ok {
			t.Errorf("expected %s to be absent, got %v", key, entry[key])
		}
	}
}
