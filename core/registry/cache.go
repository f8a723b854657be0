package registry

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// snapshot is an immutable view of the registry. It is replaced, never mutated.
type snapshot struct {
	devices    map[string]Device
	byMaterial map[string][]Device
	loadedAt   time.Time
}

// Cache holds a full registry snapshot keyed by the active scheme.
type Cache struct {
	store  Store
	scheme KeyScheme
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu         sync.RWMutex
	snap       *snapshot
	populated  bool
	generation uint64
	sf         singleflight.Group
}

// NewCache creates an empty cache over store.
// A non-positive ttl disables caching: every GetAll reads the store.
func NewCache(store Store, scheme KeyScheme, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:  store,
		scheme: scheme,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// GetAll returns a copy of the registry keyed by identity key, reading the
// store only when the snapshot is missing or expired. Concurrent refreshes
// share a single store read. A failed refresh keeps the previous snapshot.
func (c *Cache) GetAll(ctx context.Context) (map[string]Device, error) {
	if s, ok := c.fresh(); ok {
		return maps.Clone(s.devices), nil
	}

	s, err := c.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return maps.Clone(s.devices), nil
}

// Invalidate drops the snapshot; the next GetAll reads the store.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	count := 0
	if c.snap != nil {
		count = len(c.snap.devices)
	}
	c.snap = nil
	c.generation++
	c.mu.Unlock()

	c.logger.Debug("Registry cache invalidated", zap.Int("count", count))
}

// Populated reports whether a snapshot was ever loaded.
func (c *Cache) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.populated
}

// fresh returns the current snapshot when it is within the TTL.
func (c *Cache) fresh() (*snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.ttl <= 0 {
		return nil, false
	}
	return c.snap, c.now().Sub(c.snap.loadedAt) < c.ttl
}

func (c *Cache) refresh(ctx context.Context) (*snapshot, error) {
	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	v, err, _ := c.sf.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		if s, ok := c.fresh(); ok {
			return s, nil
		}

		devices, err := c.store.FetchAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh registry cache: %w", err)
		}
		s := c.build(devices)

		c.mu.Lock()
		// An invalidation during the read means s may predate a write.
		if c.generation == gen {
			c.snap = s
			c.populated = true
		}
		c.mu.Unlock()

		c.logger.Debug("Registry cache refreshed", zap.Int("count", len(s.devices)))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

func (c *Cache) build(devices []Device) *snapshot {
	s := &snapshot{
		devices:    make(map[string]Device, len(devices)),
		byMaterial: make(map[string][]Device),
		loadedAt:   c.now(),
	}
	for _, d := range devices {
		s.devices[c.scheme.DeviceKey(d)] = d
		s.byMaterial[d.MaterialID] = append(s.byMaterial[d.MaterialID], d)
	}
	return s
}
