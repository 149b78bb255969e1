// Package notify is the in-app notification center. Mutations report their
// outcome here and the UI renders the feed; nothing leaves the process.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Level classifies a notification for display.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DefaultCapacity bounds the feed when no capacity is configured.
const DefaultCapacity = 100

// Notification is one entry in the feed.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	Resource  string    `json:"resource,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Center is a bounded in-memory notification feed, newest first. It is
// safe for concurrent use.
type Center struct {
	mu       sync.Mutex
	items    []Notification
	capacity int
	logger   *zap.Logger

	now func() time.Time
}

// NewCenter creates a feed that keeps at most capacity entries. A
// non-positive capacity selects DefaultCapacity.
func NewCenter(capacity int, logger *zap.Logger) *Center {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Center{
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Push adds a notification to the front of the feed, evicting the oldest
// entry once the feed is full.
func (c *Center) Push(level Level, resource, title, message string) Notification {
	n := Notification{
		ID:       uuid.NewString(),
		Level:    level,
		Title:    title,
		Message:  message,
		Resource: resource,
	}

	c.mu.Lock()
	n.CreatedAt = c.now()
	c.items = append([]Notification{n}, c.items...)
	if len(c.items) > c.capacity {
		c.items = c.items[:c.capacity]
	}
	c.mu.Unlock()

	c.logger.Debug("notification pushed",
		zap.String("level", string(level)),
		zap.String("title", title))
	return n
}

// Recent returns up to n notifications, newest first. n <= 0 returns the
// whole feed.
func (c *Center) Recent(n int) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 || n > len(c.items) {
		n = len(c.items)
	}
	out := make([]Notification, n)
	copy(out, c.items[:n])
	return out
}

// Dismiss removes one notification by id.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the feed.
func (c *Center) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Len returns the number of notifications currently held.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
