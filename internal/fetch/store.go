// Package fetch provides the keyed read-through cache the UI reads backend
// data from. Reads within the staleness window are served from memory,
// concurrent loads of the same key collapse into a single request, and
// entries are only replaced on a successful load, so a failed refresh never
// destroys data the UI is already showing.
package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the staleness window applied when none is configured.
const DefaultTTL = 30 * time.Second

// Key identifies one cached resource. Collection keys leave ID empty.
type Key struct {
	Resource string
	ID       string
}

// Collection returns the key under which a resource's list is cached.
func Collection(resource string) Key {
	return Key{Resource: resource}
}

// Item returns the key under which a single entity is cached.
func Item(resource, id string) Key {
	return Key{Resource: resource, ID: id}
}

// String renders the key for logging and deduplication.
func (k Key) String() string {
	if k.ID == "" {
		return k.Resource
	}
	return k.Resource + "/" + k.ID
}

// LoadFunc loads the value for a key from the backend.
type LoadFunc func(ctx context.Context) (any, error)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Store is a mutex-guarded read-through cache with request deduplication.
// A single Store is shared by all services; it is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[Key]entry
	group   singleflight.Group
	ttl     time.Duration
	logger  *zap.Logger

	now func() time.Time
}

// New creates a store with the given staleness window. A non-positive ttl
// selects DefaultTTL.
func New(ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[Key]entry),
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the cached value for the key when it is fresher than the
// store's staleness window, otherwise loads it. Concurrent loads of the
// same key are collapsed into one call whose result every waiter shares.
func (s *Store) Get(ctx context.Context, key Key, load LoadFunc) (any, error) {
	return s.GetWithin(ctx, key, s.ttl, load)
}

// GetWithin behaves like Get with a per-call staleness window. A
// non-positive window falls back to the store's window.
func (s *Store) GetWithin(ctx context.Context, key Key, within time.Duration, load LoadFunc) (any, error) {
	if within <= 0 {
		within = s.ttl
	}

	if value, ok := s.fresh(key, within); ok {
		return value, nil
	}

	value, err, _ := s.group.Do(key.String(), func() (any, error) {
		// A flight that finished while this caller queued may already
		// have refreshed the entry.
		if value, ok := s.fresh(key, within); ok {
			return value, nil
		}

		value, err := load(ctx)
		if err != nil {
			s.logger.Debug("load failed, keeping cached entry",
				zap.String("key", key.String()),
				zap.Error(err))
			return nil, err
		}

		s.mu.Lock()
		s.entries[key] = entry{value: value, fetchedAt: s.now()}
		s.mu.Unlock()

		s.logger.Debug("cache refreshed", zap.String("key", key.String()))
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// fresh returns the cached value if it is younger than the window.
func (s *Store) fresh(key Key, within time.Duration) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.fetchedAt) >= within {
		return nil, false
	}
	return e.value, true
}

// Peek returns the cached value regardless of freshness, without loading.
func (s *Store) Peek(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Invalidate drops the entry for the key. The next Get loads anew instead
// of joining an in-flight load started before the invalidation.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	s.group.Forget(key.String())
}

// InvalidateResource drops the collection entry and every item entry of
// the resource. Mutating services call this after a successful write.
func (s *Store) InvalidateResource(resource string) {
	s.mu.Lock()
	var dropped []Key
	for k := range s.entries {
		if k.Resource == resource {
			delete(s.entries, k)
			dropped = append(dropped, k)
		}
	}
	s.mu.Unlock()
	s.group.Forget(resource)
	for _, k := range dropped {
		s.group.Forget(k.String())
	}
}

// Clear empties the store, e.g. on logout or tenant switch.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[Key]entry)
	s.mu.Unlock()
}

// Fetch loads a typed value through the store. The type parameter must
// match what previous loads stored under the key.
func Fetch[T any](ctx context.Context, s *Store, key Key, load func(ctx context.Context) (T, error)) (T, error) {
	v, err := s.Get(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	value, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("fetch: key %s holds %T, not %T", key, v, zero)
	}
	return value, nil
}
