package cache

import (
	"context"
	"sync"
	"time"

	"github.com/feral-file/provenance-engine/internal/adapter"
)

// entry is a live cached value. It is owned exclusively by the cache and never
// escapes it; a key maps to at most one live entry at a time.
type entry[T any] struct {
	value      T
	producedAt time.Time
	ttl        time.Duration
}

// call tracks one in-flight computation for a key. Concurrent requests for the
// same key during recomputation await the single in-flight result instead of
// triggering duplicate fetches.
type call[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Cache is a time-boxed snapshot cache with lazy TTL expiry and per-key
// single-writer semantics. Snapshots are idempotent functions of the same
// input window, so a strictly-newer write simply overwrites an older one
// (last-writer-wins).
type Cache[T any] struct {
	defaultTTL time.Duration
	clock      adapter.Clock

	mu       sync.Mutex
	entries  map[string]*entry[T]
	inflight map[string]*call[T]
}

// New creates a cache whose computed values live for defaultTTL
func New[T any](defaultTTL time.Duration, clock adapter.Clock) *Cache[T] {
	return &Cache[T]{
		defaultTTL: defaultTTL,
		clock:      clock,
		entries:    make(map[string]*entry[T]),
		inflight:   make(map[string]*call[T]),
	}
}

// Get returns the live value for key, expiring it lazily
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if c.clock.Now().Sub(e.producedAt) >= e.ttl {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// Put stores value under key. A non-positive ttl falls back to the default.
func (c *Cache[T]) Put(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry[T]{
		value:      value,
		producedAt: c.clock.Now(),
		ttl:        ttl,
	}
}

// Invalidate drops the live entry for key, forcing the next read to recompute
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// GetOrCompute returns the cached value for key, or runs compute to produce
// it. At most one computation per key is in flight at a time; concurrent
// callers await its result. The returned bool reports whether the value was
// served without this caller running compute. Errors are never cached.
//
// An in-flight computation that has already committed to writing is allowed to
// complete and populate the cache even if the entry was invalidated meanwhile.
// Callers that joined that computation receive its result as well: Invalidate
// guarantees a recomputation only for reads that start after it returns.
func (c *Cache[T]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (T, error)) (T, bool, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.clock.Now().Sub(e.producedAt) < e.ttl {
			value := e.value
			c.mu.Unlock()
			return value, true, nil
		}
		delete(c.entries, key)
	}

	if fl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-fl.done:
			return fl.value, true, fl.err
		case <-ctx.Done():
			var zero T
			return zero, false, ctx.Err()
		}
	}

	fl := &call[T]{done: make(chan struct{})}
	c.inflight[key] = fl
	c.mu.Unlock()

	fl.value, fl.err = compute(ctx)

	c.mu.Lock()
	if fl.err == nil {
		c.entries[key] = &entry[T]{
			value:      fl.value,
			producedAt: c.clock.Now(),
			ttl:        c.defaultTTL,
		}
	}
	if c.inflight[key] == fl {
		delete(c.inflight, key)
	}
	c.mu.Unlock()
	close(fl.done)

	return fl.value, false, fl.err
}

// Prune removes expired entries. Expiry is otherwise lazy, so long-lived
// processes call this periodically to bound memory.
func (c *Cache[T]) Prune() {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.Sub(e.producedAt) >= e.ttl {
			delete(c.entries, key)
		}
	}
}

// Janitor runs Prune every interval until the context is canceled
func (c *Cache[T]) Janitor(ctx context.Context, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.clock.After(interval):
			c.Prune()
		}
	}
}
