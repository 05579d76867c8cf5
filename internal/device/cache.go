package device

import (
	"sync"
	"time"
)

// ttlCache holds one kind of cached data (runtime, energy, battery,
// parameters, firmware info) behind its own mutex and TTL, so a refresh
// of one kind never blocks a concurrent refresh of another, while
// concurrent refreshes of the *same* kind collapse to a single wire
// read per window.
type ttlCache[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	value     T
	fetchedAt time.Time
	valid     bool
}

func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	return &ttlCache[T]{ttl: ttl}
}

// Stale reports whether the cache has never been populated or its TTL
// has elapsed.
func (c *ttlCache[T]) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staleLocked()
}

func (c *ttlCache[T]) staleLocked() bool {
	return !c.valid || time.Since(c.fetchedAt) >= c.ttl
}

// Get returns the cached value, the time it was fetched, and whether it
// is present.
func (c *ttlCache[T]) Get() (T, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.fetchedAt, c.valid
}

// Refresh calls fetch under the cache's lock if the cache is stale or
// force is set, storing the result and timestamp on success. On
// failure, or when the fetch declines to publish (a validation canary
// rejected the fresh read), the previous value and timestamp are kept.
// fetch returns (value, publish, err): publish=false with err=nil means
// "kept prior cache by design," not a failure.
func (c *ttlCache[T]) Refresh(force bool, fetch func() (T, bool, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !force && !c.staleLocked() {
		return nil
	}
	v, publish, err := fetch()
	if err != nil {
		return err
	}
	if publish {
		c.value = v
		c.fetchedAt = time.Now()
		c.valid = true
	}
	return nil
}
