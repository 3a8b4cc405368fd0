package cache

import (
	"sync"
	"time"
)

// TTL is a single-value time-boxed cache. Every cached collaborator in the
// system (timetable, trip updates, alerts, venue events) holds one of these
// with its own expiry. Writers are last-writer-wins and readers never block
// a refresh; concurrent cold reads may each trigger the loader, which is
// acceptable as correctness only depends on the staleness bound.
type TTL[T any] struct {
	mutex sync.RWMutex

	value     T
	fetchedAt time.Time

	expiry time.Duration
	now    func() time.Time
}

func NewTTL[T any](expiry time.Duration) *TTL[T] {
	return &TTL[T]{
		expiry: expiry,
		now:    time.Now,
	}
}

// Fresh reports whether the cached value is younger than the expiry.
func (c *TTL[T]) Fresh() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.expiry
}

func (c *TTL[T]) Get() (T, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.fetchedAt.IsZero() || c.now().Sub(c.fetchedAt) >= c.expiry {
		var empty T
		return empty, false
	}

	return c.value, true
}

func (c *TTL[T]) Set(value T) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.value = value
	c.fetchedAt = c.now()
}

// Fetch returns the cached value when fresh, otherwise runs the loader and
// caches its result. A loader error leaves any previously cached value
// untouched and is returned to the caller.
func (c *TTL[T]) Fetch(loader func() (T, error)) (T, error) {
	if value, ok := c.Get(); ok {
		return value, nil
	}

	value, err := loader()
	if err != nil {
		var empty T
		return empty, err
	}

	c.Set(value)
	return value, nil
}
