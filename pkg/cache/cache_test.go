package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newFakeClockCache[T any](expiry time.Duration) (*TTL[T], *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)}
	cached := NewTTL[T](expiry)
	cached.now = clock.now
	return cached, clock
}

func TestGetEmpty(t *testing.T) {
	cached, _ := newFakeClockCache[string](time.Minute)

	_, ok := cached.Get()
	assert.False(t, ok)
	assert.False(t, cached.Fresh())
}

func TestSetThenGet(t *testing.T) {
	cached, clock := newFakeClockCache[string](time.Minute)

	cached.Set("value")

	value, ok := cached.Get()
	require.True(t, ok)
	assert.Equal(t, "value", value)
	assert.True(t, cached.Fresh())

	clock.advance(59 * time.Second)
	assert.True(t, cached.Fresh())

	clock.advance(2 * time.Second)
	assert.False(t, cached.Fresh())
	_, ok = cached.Get()
	assert.False(t, ok)
}

func TestFetchLoadsOnceUntilExpiry(t *testing.T) {
	cached, clock := newFakeClockCache[int](time.Minute)

	loads := 0
	loader := func() (int, error) {
		loads++
		return loads * 10, nil
	}

	value, err := cached.Fetch(loader)
	require.NoError(t, err)
	assert.Equal(t, 10, value)

	value, err = cached.Fetch(loader)
	require.NoError(t, err)
	assert.Equal(t, 10, value)
	assert.Equal(t, 1, loads)

	clock.advance(2 * time.Minute)

	value, err = cached.Fetch(loader)
	require.NoError(t, err)
	assert.Equal(t, 20, value)
	assert.Equal(t, 2, loads)
}

func TestFetchErrorLeavesCacheUntouched(t *testing.T) {
	cached, clock := newFakeClockCache[int](time.Minute)

	cached.Set(42)
	clock.advance(2 * time.Minute)

	_, err := cached.Fetch(func() (int, error) {
		return 0, errors.New("upstream down")
	})
	assert.Error(t, err)

	// A later successful load still works
	value, err := cached.Fetch(func() (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, value)
}
