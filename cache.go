package boorusnap

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// entry is one cached value together with the bookkeeping needed to expire it
// on either an absolute time-to-live or an idle time-to-idle, whichever comes
// first — the same pair of clocks the upstream caching layer this service
// replaces was built around.
type entry[V any] struct {
	value      V
	err        error
	createdAt  time.Time
	lastAccess time.Time
}

// Cache is a bounded, TTL+TTI-expiring, single-flight-coalesced cache keyed by
// comparable K. It composes github.com/hashicorp/golang-lru/v2 (capacity and
// eviction) with golang.org/x/sync/singleflight (request coalescing, the same
// mechanism the teacher's own processURL dispatch uses via h.inFlight.Do) plus
// hand-rolled dual-clock expiry, since no single library in reach offers all
// three at once.
type Cache[K comparable, V any] struct {
	mu    sync.Mutex
	items *lru.Cache[K, *entry[V]]
	group singleflight.Group
	ttl   time.Duration
	tti   time.Duration
}

// NewCache builds a Cache holding at most capacity live entries, each expiring
// ttl after creation or tti after its last read, whichever is sooner. A
// non-positive ttl or tti disables that axis of expiry.
func NewCache[K comparable, V any](capacity int, ttl, tti time.Duration) (*Cache[K, V], error) {
	items, err := lru.New[K, *entry[V]](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{items: items, ttl: ttl, tti: tti}, nil
}

func (c *Cache[K, V]) expired(e *entry[V], now time.Time) bool {
	if c.ttl > 0 && now.Sub(e.createdAt) >= c.ttl {
		return true
	}
	if c.tti > 0 && now.Sub(e.lastAccess) >= c.tti {
		return true
	}
	return false
}

// GetOrCompute returns the cached value for key, computing it via compute if
// absent or expired. Concurrent calls for the same key that miss the cache at
// the same time share a single in-flight call to compute (scenario: N
// concurrent identical requests result in exactly one upstream fetch). An
// error result is shared with callers already waiting on that same in-flight
// call, but is never itself stored in the cache — so the next caller to miss
// retries compute from scratch, rather than having a transient failure wedge
// into place for the cache's full TTL.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	now := time.Now()

	c.mu.Lock()
	if e, ok := c.items.Get(key); ok && !c.expired(e, now) {
		e.lastAccess = now
		c.mu.Unlock()
		return e.value, e.err
	}
	c.mu.Unlock()

	type result struct {
		value V
		err   error
	}
	v, err, _ := c.group.Do(anyKey(key), func() (interface{}, error) {
		now := time.Now()
		c.mu.Lock()
		if e, ok := c.items.Get(key); ok && !c.expired(e, now) {
			e.lastAccess = now
			c.mu.Unlock()
			return result{e.value, e.err}, nil
		}
		c.mu.Unlock()

		value, err := compute()
		if err == nil {
			c.mu.Lock()
			c.items.Add(key, &entry[V]{value: value, createdAt: now, lastAccess: now})
			c.mu.Unlock()
		}
		return result{value, err}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	r := v.(result)
	return r.value, r.err
}

// Invalidate drops every cached entry for which match returns true. Used to
// evict stale results out-of-band, e.g. after a provider configuration change.
func (c *Cache[K, V]) Invalidate(match func(key K, value V) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range c.items.Keys() {
		e, ok := c.items.Peek(key)
		if !ok {
			continue
		}
		if match(key, e.value) {
			c.items.Remove(key)
		}
	}
}

// Purge evicts every expired entry. Intended to be called periodically from a
// background goroutine so idle entries don't linger in memory between reads.
func (c *Cache[K, V]) Purge() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range c.items.Keys() {
		e, ok := c.items.Peek(key)
		if ok && c.expired(e, now) {
			c.items.Remove(key)
		}
	}
}

// anyKey renders a comparable key as a singleflight.Group key string.
func anyKey[K comparable](key K) string {
	if s, ok := any(key).(string); ok {
		return s
	}
	return fmt.Sprintf("%v", key)
}
