package cache

import (
	"context"
	"sync"
	"time"
)

// TTL holds one lazily loaded value that expires according to a policy.
// It is safe for concurrent use. Concurrent misses may each call load;
// the last result wins.
type TTL[T any] struct {
	policy ExpiryPolicy
	now    func() time.Time

	mu      sync.Mutex
	value   T
	expires time.Time
	ok      bool
	evict   func(T)
}

// NewTTL creates an empty TTL cache. A nil now uses time.Now.
func NewTTL[T any](policy ExpiryPolicy, now func() time.Time) *TTL[T] {
	if now == nil {
		now = time.Now
	}
	return &TTL[T]{policy: policy, now: now}
}

// OnEvict registers fn to receive every value the cache lets go of, whether
// it expired, was replaced or was invalidated. fn runs outside the lock.
func (c *TTL[T]) OnEvict(fn func(T)) *TTL[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evict = fn
	return c
}

// Get returns the cached value if it is still fresh. An expired value is
// dropped.
func (c *TTL[T]) Get() (T, bool) {
	var zero T

	c.mu.Lock()
	if !c.ok {
		c.mu.Unlock()
		return zero, false
	}
	if c.now().Before(c.expires) {
		v := c.value
		c.mu.Unlock()
		return v, true
	}
	old, evict := c.dropLocked()
	c.mu.Unlock()

	if evict != nil {
		evict(old)
	}
	return zero, false
}

// Set stores v, stamping its expiry from the policy. A non-positive TTL
// leaves the cache empty.
func (c *TTL[T]) Set(v T) {
	now := c.now()
	ttl := c.policy(now)

	c.mu.Lock()
	held, old := c.ok, c.value
	evict := c.evict
	if ttl <= 0 {
		var zero T
		c.value, c.ok = zero, false
	} else {
		c.value, c.expires, c.ok = v, now.Add(ttl), true
	}
	c.mu.Unlock()

	if held && evict != nil {
		evict(old)
	}
}

// GetOrLoad returns the cached value, calling load and storing its result
// on a miss. Load errors are returned and not cached.
func (c *TTL[T]) GetOrLoad(ctx context.Context, load func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(v)
	return v, nil
}

// Invalidate drops the cached value.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	old, evict := c.dropLocked()
	c.mu.Unlock()

	if evict != nil {
		evict(old)
	}
}

// dropLocked clears the held value and returns it with the evict hook, or a
// nil hook when nothing was held.
func (c *TTL[T]) dropLocked() (T, func(T)) {
	var zero T
	if !c.ok {
		return zero, nil
	}
	old := c.value
	c.value, c.ok = zero, false
	return old, c.evict
}
