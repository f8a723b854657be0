package registry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spare-manager/core/registry"
	"spare-manager/core/registry/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

var sampleDevices = []registry.Device{
	{MaterialID: "M1", Model: registry.ModelSystem, Description: "Pump", SpareCount: 5, Unit: "pcs", Status: registry.StatusWhitelisted},
	{MaterialID: "M1", Model: registry.ModelPress, Description: "Pump", SpareCount: 1, Unit: "pcs", Status: registry.StatusWhitelisted},
	{MaterialID: "M3", Status: registry.StatusBlacklisted},
}

func newTestCache(store registry.Store) (*registry.Cache, *fakeClock) {
	clock := newFakeClock()
	cache := registry.NewCache(store, registry.SchemeComposite, 5*time.Minute, nil)
	registry.SetCacheClock(cache, clock.Now)
	return cache, clock
}

func TestCache_FreshSnapshotSkipsStorage(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("FetchAll", mock.Anything).Return(sampleDevices, nil)
	cache, clock := newTestCache(store)

	first, err := cache.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 3)
	assert.Contains(t, first, "M1|System")
	assert.Contains(t, first, "M3|")

	clock.Advance(4 * time.Minute)
	_, err = cache.GetAll(ctx)
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "FetchAll", 1)

	clock.Advance(2 * time.Minute)
	_, err = cache.GetAll(ctx)
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "FetchAll", 2)
}

func TestCache_GetAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("FetchAll", mock.Anything).Return(sampleDevices, nil)
	cache, _ := newTestCache(store)

	got, err := cache.GetAll(ctx)
	require.NoError(t, err)
	delete(got, "M3|")
	got["M1|System"] = registry.Device{MaterialID: "tampered"}

	again, err := cache.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 3)
	assert.Equal(t, "M1", again["M1|System"].MaterialID)
	store.AssertNumberOfCalls(t, "FetchAll", 1)
}

func TestCache_InvalidateForcesOneRead(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("FetchAll", mock.Anything).Return(sampleDevices, nil)
	cache, _ := newTestCache(store)

	_, err := cache.GetAll(ctx)
	require.NoError(t, err)

	cache.Invalidate()
	_, err = cache.GetAll(ctx)
	require.NoError(t, err)
	_, err = cache.GetAll(ctx)
	require.NoError(t, err)

	store.AssertNumberOfCalls(t, "FetchAll", 2)
	assert.True(t, cache.Populated())
}

func TestCache_FailedRefreshKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("FetchAll", mock.Anything).Return(sampleDevices, nil).Once()
	store.On("FetchAll", mock.Anything).Return(nil, errors.New("connect timeout")).Once()
	cache, clock := newTestCache(store)

	_, err := cache.GetAll(ctx)
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	_, err = cache.GetAll(ctx)
	assert.ErrorContains(t, err, "connect timeout")

	// Rewinding proves the old snapshot is still installed.
	clock.Advance(-9 * time.Minute)
	got, err := cache.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	store.AssertNumberOfCalls(t, "FetchAll", 2)
}

func TestCache_ConcurrentRefreshCollapses(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("FetchAll", mock.Anything).After(50*time.Millisecond).Return(sampleDevices, nil)
	cache, _ := newTestCache(store)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cache.GetAll(ctx)
			assert.NoError(t, err)
			assert.Len(t, got, 3)
		}()
	}
	wg.Wait()

	store.AssertNumberOfCalls(t, "FetchAll", 1)
}

func TestCache_InvalidationDuringRefresh(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	cache, _ := newTestCache(store)

	store.On("FetchAll", mock.Anything).Run(func(mock.Arguments) {
		cache.Invalidate()
	}).Return(sampleDevices, nil).Once()
	store.On("FetchAll", mock.Anything).Return(sampleDevices[:1], nil).Once()

	got, err := cache.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// The raced snapshot was not installed.
	got, err = cache.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	store.AssertNumberOfCalls(t, "FetchAll", 2)
}

func TestCache_ZeroTTLDisablesCaching(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("FetchAll", mock.Anything).Return(sampleDevices, nil)
	cache := registry.NewCache(store, registry.SchemeSingle, 0, nil)

	got, err := cache.GetAll(ctx)
	require.NoError(t, err)
	// Single scheme collapses M1 under one key.
	assert.Len(t, got, 2)

	_, err = cache.GetAll(ctx)
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "FetchAll", 2)
}
