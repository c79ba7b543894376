// Package cache provides an explicit in-process cache for derived state.
//
// The cache is an object owned by the caller and passed by reference, not a
// process-wide singleton. Callers invalidate a namespace after each
// mutation that affects it.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache maps a namespace to a single value with an expiry.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
}

// New creates a Cache whose values expire after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for a namespace, if present and unexpired.
func (c *Cache) Get(namespace string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[namespace]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, namespace)
		return nil, false
	}
	return e.value, true
}

// Put stores a value under a namespace.
func (c *Cache) Put(namespace string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[namespace] = entry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops the value for a namespace. Call after every mutation
// that affects the namespace's derived state.
func (c *Cache) Invalidate(namespace string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, namespace)
}

// Clear drops all cached values.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
