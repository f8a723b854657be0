package registry

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// MatchResult partitions a lookup batch.
type MatchResult struct {
	// Matched maps identity keys to the registry record.
	Matched map[string]Device
	// Unmatched holds the requested pairs without a record, in request order.
	Unmatched []Pair
	// ByMaterial lists every record of each requested material id, any model.
	ByMaterial map[string][]Device

	order []string
}

// Devices returns the matched records in request order.
func (r *MatchResult) Devices() []Device {
	devices := make([]Device, 0, len(r.Matched))
	for _, key := range r.order {
		if d, ok := r.Matched[key]; ok {
			devices = append(devices, d)
		}
	}
	return devices
}

// Matcher resolves (materialId, model) pairs cache-first, then from storage.
type Matcher struct {
	cache  *Cache
	store  Store
	scheme KeyScheme
	logger *zap.Logger
}

// NewMatcher creates a matcher over cache and store.
func NewMatcher(cache *Cache, store Store, scheme KeyScheme, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{cache: cache, store: store, scheme: scheme, logger: logger}
}

// Match resolves pairs. A missing key is reported in Unmatched, never as an
// error; only a storage failure returns an error.
func (m *Matcher) Match(ctx context.Context, pairs []Pair) (*MatchResult, error) {
	result := &MatchResult{
		Matched:    make(map[string]Device),
		ByMaterial: make(map[string][]Device),
	}
	if len(pairs) == 0 {
		return result, nil
	}

	unique := make([]Pair, 0, len(pairs))
	keys := make([]string, 0, len(pairs))
	seenKey := make(map[string]struct{}, len(pairs))
	ids := make([]string, 0, len(pairs))
	seenID := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		key := m.scheme.KeyOf(p.MaterialID, p.Model)
		if _, ok := seenKey[key]; ok {
			continue
		}
		seenKey[key] = struct{}{}
		unique = append(unique, p)
		keys = append(keys, key)
		if _, ok := seenID[p.MaterialID]; !ok {
			seenID[p.MaterialID] = struct{}{}
			ids = append(ids, p.MaterialID)
		}
	}
	result.order = keys

	if s, ok := m.cache.fresh(); ok {
		for _, id := range ids {
			if devices, ok := s.byMaterial[id]; ok {
				result.ByMaterial[id] = slices.Clone(devices)
			}
		}
		m.partition(result, unique, keys, s.devices)
		return result, nil
	}

	found, err := m.store.FindByMaterialIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to match devices: %w", err)
	}

	index := make(map[string]Device, len(found))
	for _, d := range found {
		index[m.scheme.DeviceKey(d)] = d
		result.ByMaterial[d.MaterialID] = append(result.ByMaterial[d.MaterialID], d)
	}
	m.partition(result, unique, keys, index)

	if !m.cache.Populated() {
		if _, err := m.cache.GetAll(ctx); err != nil {
			m.logger.Warn("Failed to warm registry cache", zap.Error(err))
		}
	}
	return result, nil
}

func (m *Matcher) partition(result *MatchResult, pairs []Pair, keys []string, index map[string]Device) {
	for i, p := range pairs {
		if d, ok := index[keys[i]]; ok {
			result.Matched[keys[i]] = d
			continue
		}
		result.Unmatched = append(result.Unmatched, p)
	}
}
