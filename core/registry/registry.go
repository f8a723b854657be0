package registry

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Registry is the device registry: persistence, cache and matcher behind one
// identity scheme. Every successful write invalidates the cache.
type Registry struct {
	store   Store
	cache   *Cache
	matcher *Matcher
	scheme  KeyScheme
	logger  *zap.Logger
}

// New wires a registry over store.
func New(store Store, scheme KeyScheme, ttl time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := NewCache(store, scheme, ttl, logger)
	return &Registry{
		store:   store,
		cache:   cache,
		matcher: NewMatcher(cache, store, scheme, logger),
		scheme:  scheme,
		logger:  logger,
	}
}

// Scheme returns the active identity scheme.
func (r *Registry) Scheme() KeyScheme {
	return r.scheme
}

// Cache returns the registry cache.
func (r *Registry) Cache() *Cache {
	return r.cache
}

// Match resolves pairs through the matcher.
func (r *Registry) Match(ctx context.Context, pairs []Pair) (*MatchResult, error) {
	return r.matcher.Match(ctx, pairs)
}

// List returns every device, unique by identity key, ordered by material id then model.
func (r *Registry) List(ctx context.Context) ([]Device, error) {
	all, err := r.cache.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(all))
	for _, d := range all {
		devices = append(devices, d)
	}
	slices.SortFunc(devices, func(a, b Device) int {
		return cmp.Or(strings.Compare(a.MaterialID, b.MaterialID), strings.Compare(a.Model, b.Model))
	})
	return devices, nil
}

// ListByStatus returns the devices with the given status, ordered like List.
func (r *Registry) ListByStatus(ctx context.Context, status Status) ([]Device, error) {
	devices, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(devices, func(d Device) bool { return d.Status != status }), nil
}

// Get returns the device with the identity of (materialID, model).
func (r *Registry) Get(ctx context.Context, materialID, model string) (Device, error) {
	found, err := r.store.FindByMaterialIDs(ctx, []string{materialID})
	if err != nil {
		return Device{}, err
	}
	key := r.scheme.KeyOf(materialID, model)
	for _, d := range found {
		if r.scheme.DeviceKey(d) == key {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("%s: %w", key, ErrNotFound)
}

// Save validates and upserts devices in one transaction.
func (r *Registry) Save(ctx context.Context, devices []Device) error {
	normalized, err := r.prepare(devices)
	if err != nil {
		return err
	}
	if len(normalized) == 0 {
		return nil
	}
	if err := r.store.UpsertMany(ctx, normalized); err != nil {
		return err
	}
	r.cache.Invalidate()
	r.logger.Info("Devices saved", zap.Int("count", len(normalized)))
	return nil
}

// Replace performs a full replacement: devices are upserted and, under the
// single-key scheme, every stored id absent from devices is deleted.
// An empty replacement is a no-op.
func (r *Registry) Replace(ctx context.Context, devices []Device) error {
	normalized, err := r.prepare(devices)
	if err != nil {
		return err
	}
	if len(normalized) == 0 {
		return nil
	}
	prune := !r.scheme.Composite()
	if err := r.store.Sync(ctx, normalized, prune); err != nil {
		return err
	}
	r.cache.Invalidate()
	r.logger.Info("Devices replaced", zap.Int("count", len(normalized)), zap.Bool("pruned", prune))
	return nil
}

// Delete removes every record of materialID.
func (r *Registry) Delete(ctx context.Context, materialID string) error {
	if err := r.store.DeleteOne(ctx, materialID); err != nil {
		return err
	}
	r.cache.Invalidate()
	return nil
}

// DeleteMany removes every record of the given ids.
func (r *Registry) DeleteMany(ctx context.Context, materialIDs []string) (int64, error) {
	deleted, err := r.store.DeleteMany(ctx, materialIDs)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		r.cache.Invalidate()
	}
	return deleted, nil
}

// Toggle flips a device between Whitelisted and Blacklisted. Whitelisting
// requires the fields the spare-parts report needs.
func (r *Registry) Toggle(ctx context.Context, materialID, model string) (Device, error) {
	d, err := r.Get(ctx, materialID, model)
	if err != nil {
		return Device{}, err
	}

	d.Status = d.Status.Toggle()
	if err := d.ValidateTrackable(); err != nil {
		return Device{}, err
	}
	if err := r.Save(ctx, []Device{d}); err != nil {
		return Device{}, err
	}
	return d, nil
}

// Refresh drops the cache and reloads it from storage.
func (r *Registry) Refresh(ctx context.Context) error {
	r.cache.Invalidate()
	_, err := r.cache.GetAll(ctx)
	return err
}

func (r *Registry) prepare(devices []Device) ([]Device, error) {
	normalized := make([]Device, 0, len(devices))
	for i, d := range devices {
		d = d.Normalize()
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("device %d: %w", i+1, err)
		}
		normalized = append(normalized, d)
	}
	return normalized, nil
}
