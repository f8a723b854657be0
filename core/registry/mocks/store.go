package mocks

import (
	"context"

	"spare-manager/core/registry"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of registry.Store
type Store struct {
	mock.Mock
}

func (m *Store) FetchAll(ctx context.Context) ([]registry.Device, error) {
	args := m.Called(ctx)
	devices, _ := args.Get(0).([]registry.Device)
	return devices, args.Error(1)
}

func (m *Store) FindByMaterialIDs(ctx context.Context, ids []string) ([]registry.Device, error) {
	args := m.Called(ctx, ids)
	devices, _ := args.Get(0).([]registry.Device)
	return devices, args.Error(1)
}

func (m *Store) UpsertMany(ctx context.Context, devices []registry.Device) error {
	args := m.Called(ctx, devices)
	return args.Error(0)
}

func (m *Store) DeleteOne(ctx context.Context, materialID string) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

func (m *Store) DeleteMany(ctx context.Context, materialIDs []string) (int64, error) {
	args := m.Called(ctx, materialIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) Sync(ctx context.Context, devices []registry.Device, prune bool) error {
	args := m.Called(ctx, devices, prune)
	return args.Error(0)
}
