// Package notify implements per-session toast notifications with
// automatic expiry. A notification disappears either when its TTL
// elapses or when it is dismissed explicitly; both paths go through the
// same removal.
package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fayzdev/fayz-go/internal/metrics"
)

// Notification kinds.
const (
	KindSuccess = "success"
	KindError   = "error"
	KindWarning = "warning"
	KindInfo    = "info"
)

// Notification is a single active toast.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type entry struct {
	notification Notification
	timer        *time.Timer
}

// Center holds the active notifications of all sessions.
type Center struct {
	ttl     time.Duration
	metrics *metrics.Metrics

	mu     sync.Mutex
	active map[string]map[string]*entry // session -> id -> entry
}

// NewCenter creates a notification center whose toasts expire after ttl.
func NewCenter(ttl time.Duration, m *metrics.Metrics) *Center {
	return &Center{
		ttl:     ttl,
		metrics: m,
		active:  make(map[string]map[string]*entry),
	}
}

// Push adds a notification for a session and schedules its expiry.
// Returns the notification so handlers can echo it in the response.
func (c *Center) Push(sessionID, kind, message string) Notification {
	now := time.Now()
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	byID := c.active[sessionID]
	if byID == nil {
		byID = make(map[string]*entry)
		c.active[sessionID] = byID
	}
	byID[n.ID] = &entry{
		notification: n,
		timer: time.AfterFunc(c.ttl, func() {
			c.remove(sessionID, n.ID)
		}),
	}

	c.metrics.RecordNotification(kind)
	return n
}

// Success pushes a success toast.
func (c *Center) Success(sessionID, message string) Notification {
	return c.Push(sessionID, KindSuccess, message)
}

// Error pushes an error toast.
func (c *Center) Error(sessionID, message string) Notification {
	return c.Push(sessionID, KindError, message)
}

// Warning pushes a warning toast.
func (c *Center) Warning(sessionID, message string) Notification {
	return c.Push(sessionID, KindWarning, message)
}

// Info pushes an info toast.
func (c *Center) Info(sessionID, message string) Notification {
	return c.Push(sessionID, KindInfo, message)
}

// Dismiss removes a notification before its TTL elapses. Dismissing an
// expired or unknown notification is a no-op.
func (c *Center) Dismiss(sessionID, id string) {
	c.remove(sessionID, id)
}

// Active returns a session's live notifications, oldest first.
func (c *Center) Active(sessionID string) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	byID := c.active[sessionID]
	out := make([]Notification, 0, len(byID))
	for _, e := range byID {
		out = append(out, e.notification)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (c *Center) remove(sessionID, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byID := c.active[sessionID]
	e, ok := byID[id]
	if !ok {
		return
	}
	e.timer.Stop()
	delete(byID, id)
	if len(byID) == 0 {
		delete(c.active, sessionID)
	}
}
