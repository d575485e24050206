package notify

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fayzdev/fayz-go/internal/metrics"
)

func newTestCenter(ttl time.Duration) *Center {
	return NewCenter(ttl, metrics.New(prometheus.NewRegistry()))
}

func TestPushAndActive(t *testing.T) {
	t.Parallel()

	c := newTestCenter(time.Minute)

	first := c.Success("sess", "Order placed")
	second := c.Error("sess", "Something went wrong")
	c.Info("other-sess", "Welcome")

	active := c.Active("sess")
	if len(active) != 2 {
		t.Fatalf("len(Active) = %d, want 2", len(active))
	}
	if active[0].ID != first.ID {
		t.Errorf("first active = %q, want oldest first", active[0].Message)
	}
	if active[1].Kind != KindError {
		t.Errorf("Kind = %q, want %q", active[1].Kind, KindError)
	}
	if second.ExpiresAt.Before(second.CreatedAt) {
		t.Error("ExpiresAt should be after CreatedAt")
	}

	// Sessions are isolated
	if got := c.Active("other-sess"); len(got) != 1 {
		t.Errorf("other session len(Active) = %d, want 1", len(got))
	}
}

func TestAutoExpiry(t *testing.T) {
	t.Parallel()

	c := newTestCenter(20 * time.Millisecond)
	c.Info("sess", "short lived")

	if len(c.Active("sess")) != 1 {
		t.Fatal("notification should be active before TTL")
	}

	deadline := time.Now().Add(time.Second)
	for len(c.Active("sess")) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("notification did not expire")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDismiss(t *testing.T) {
	t.Parallel()

	c := newTestCenter(time.Minute)
	n := c.Success("sess", "Order placed")

	c.Dismiss("sess", n.ID)
	if len(c.Active("sess")) != 0 {
		t.Error("dismissed notification should not be active")
	}

	// Dismissing again, or dismissing an unknown id, is a no-op
	c.Dismiss("sess", n.ID)
	c.Dismiss("sess", "unknown")
}

func TestDismissStopsTimer(t *testing.T) {
	t.Parallel()

	c := newTestCenter(20 * time.Millisecond)
	n := c.Info("sess", "dismiss me")
	c.Dismiss("sess", n.ID)

	// Push a replacement after the original would have expired; the
	// stale timer must not remove it.
	time.Sleep(40 * time.Millisecond)
	fresh := c.Info("sess", "still here")

	active := c.Active("sess")
	if len(active) != 1 || active[0].ID != fresh.ID {
		t.Errorf("Active = %+v, want only the fresh notification", active)
	}
}
