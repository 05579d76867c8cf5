package device

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheStaleWhenNeverPopulated(t *testing.T) {
	c := newTTLCache[int](time.Minute)
	assert.True(t, c.Stale())
}

func TestTTLCacheRefreshPopulatesValueAndClearsStale(t *testing.T) {
	c := newTTLCache[int](time.Minute)
	err := c.Refresh(false, func() (int, bool, error) { return 42, true, nil })
	require.NoError(t, err)
	assert.False(t, c.Stale())

	v, _, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestTTLCacheRefreshSkippedWhenFreshAndNotForced(t *testing.T) {
	c := newTTLCache[int](time.Hour)
	calls := 0
	fetch := func() (int, bool, error) { calls++; return calls, true, nil }

	require.NoError(t, c.Refresh(false, fetch))
	require.NoError(t, c.Refresh(false, fetch))

	assert.Equal(t, 1, calls)
	v, _, _ := c.Get()
	assert.Equal(t, 1, v)
}

func TestTTLCacheForceRefreshBypassesFreshness(t *testing.T) {
	c := newTTLCache[int](time.Hour)
	calls := 0
	fetch := func() (int, bool, error) { calls++; return calls, true, nil }

	require.NoError(t, c.Refresh(false, fetch))
	require.NoError(t, c.Refresh(true, fetch))

	assert.Equal(t, 2, calls)
}

func TestTTLCacheRefreshExpiresAfterTTL(t *testing.T) {
	c := newTTLCache[int](10 * time.Millisecond)
	require.NoError(t, c.Refresh(false, func() (int, bool, error) { return 1, true, nil }))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, c.Stale())
}

func TestTTLCacheRefreshKeepsPriorValueOnFetchError(t *testing.T) {
	c := newTTLCache[int](time.Hour)
	require.NoError(t, c.Refresh(false, func() (int, bool, error) { return 7, true, nil }))

	err := c.Refresh(true, func() (int, bool, error) { return 0, false, errors.New("read failed") })
	assert.Error(t, err)

	v, _, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestTTLCacheRefreshDeclinedPublishKeepsPriorValueWithoutError(t *testing.T) {
	c := newTTLCache[int](time.Hour)
	require.NoError(t, c.Refresh(false, func() (int, bool, error) { return 7, true, nil }))

	err := c.Refresh(true, func() (int, bool, error) { return 99, false, nil })
	require.NoError(t, err)

	v, _, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v, "a declined publish must not overwrite the prior cached value")
}
