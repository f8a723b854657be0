package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spare-manager/core/database"
	"spare-manager/core/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence collaborator of the registry.
type Store interface {
	// FetchAll returns every stored device.
	FetchAll(ctx context.Context) ([]Device, error)
	// FindByMaterialIDs returns every device whose material id is in ids.
	FindByMaterialIDs(ctx context.Context, ids []string) ([]Device, error)
	// UpsertMany inserts or updates devices by identity key, all or nothing.
	UpsertMany(ctx context.Context, devices []Device) error
	// DeleteOne removes every record of materialID.
	DeleteOne(ctx context.Context, materialID string) error
	// DeleteMany removes every record of the given ids and returns the row count.
	DeleteMany(ctx context.Context, materialIDs []string) (int64, error)
	// Sync upserts devices and, when prune is set, deletes every record whose
	// material id is absent from devices. Both happen in one transaction.
	Sync(ctx context.Context, devices []Device, prune bool) error
}

// TableName is the devices table.
const TableName = "devices"

// queryChunk bounds IN lists and multi-row inserts.
const queryChunk = 500

type deviceRecord struct {
	ID          uint      `gorm:"primaryKey"`
	IdentityKey string    `gorm:"column:identity_key;size:191;uniqueIndex;not null"`
	MaterialID  string    `gorm:"column:material_id;size:128;index;not null"`
	Model       string    `gorm:"column:model;size:64;not null"`
	Description string    `gorm:"column:description;size:512"`
	SpareCount  int       `gorm:"column:spare_count;not null"`
	Unit        string    `gorm:"column:unit;size:32"`
	Remark      string    `gorm:"column:remark;size:512"`
	Status      string    `gorm:"column:status;size:32;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (deviceRecord) TableName() string {
	return TableName
}

var (
	requiredColumns = []string{
		"identity_key", "material_id", "model", "description",
		"spare_count", "unit", "remark", "status",
	}
	upsertColumns = []string{
		"material_id", "model", "description", "spare_count",
		"unit", "remark", "status", "updated_at",
	}
)

func (r deviceRecord) device() Device {
	return Device{
		MaterialID:  r.MaterialID,
		Model:       r.Model,
		Description: r.Description,
		SpareCount:  r.SpareCount,
		Unit:        r.Unit,
		Remark:      r.Remark,
		Status:      ParseStatus(r.Status),
	}
}

// GormStore persists devices through GORM (MySQL in production, SQLite locally).
type GormStore struct {
	db     *gorm.DB
	scheme KeyScheme
}

// NewGormStore creates a store writing identity keys with scheme.
func NewGormStore(db *gorm.DB, scheme KeyScheme) *GormStore {
	return &GormStore{db: db, scheme: scheme}
}

// Migrate creates or updates the devices table and verifies its columns.
func (s *GormStore) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&deviceRecord{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}

	missing, err := database.MissingColumns(db, TableName, requiredColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", TableName, strings.Join(missing, ", "))
	}
	return nil
}

// FetchAll implements Store.
func (s *GormStore) FetchAll(ctx context.Context) ([]Device, error) {
	var records []deviceRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch devices: %w", err)
	}
	return toDevices(records), nil
}

// FindByMaterialIDs implements Store.
func (s *GormStore) FindByMaterialIDs(ctx context.Context, ids []string) ([]Device, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var devices []Device
	for _, chunk := range utils.Batch(ids, queryChunk) {
		var records []deviceRecord
		if err := s.db.WithContext(ctx).Where("material_id IN ?", chunk).Order("id").Find(&records).Error; err != nil {
			return nil, fmt.Errorf("failed to query devices: %w", err)
		}
		devices = append(devices, toDevices(records)...)
	}
	return devices, nil
}

// UpsertMany implements Store.
func (s *GormStore) UpsertMany(ctx context.Context, devices []Device) error {
	if len(devices) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.upsert(tx, devices)
	})
}

// Sync implements Store.
func (s *GormStore) Sync(ctx context.Context, devices []Device, prune bool) error {
	if len(devices) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.upsert(tx, devices); err != nil {
			return err
		}
		if !prune {
			return nil
		}

		keep := uniqueMaterialIDs(devices)
		if err := tx.Where("material_id NOT IN ?", keep).Delete(&deviceRecord{}).Error; err != nil {
			return fmt.Errorf("failed to prune devices: %w", err)
		}
		return nil
	})
}

// DeleteOne implements Store. It returns ErrNotFound when nothing was deleted.
func (s *GormStore) DeleteOne(ctx context.Context, materialID string) error {
	res := s.db.WithContext(ctx).Where("material_id = ?", materialID).Delete(&deviceRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete device %s: %w", materialID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", materialID, ErrNotFound)
	}
	return nil
}

// DeleteMany implements Store.
func (s *GormStore) DeleteMany(ctx context.Context, materialIDs []string) (int64, error) {
	if len(materialIDs) == 0 {
		return 0, nil
	}

	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, chunk := range utils.Batch(materialIDs, queryChunk) {
			res := tx.Where("material_id IN ?", chunk).Delete(&deviceRecord{})
			if res.Error != nil {
				return fmt.Errorf("failed to delete devices: %w", res.Error)
			}
			deleted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (s *GormStore) upsert(tx *gorm.DB, devices []Device) error {
	records := s.records(devices)
	for _, chunk := range utils.Batch(records, queryChunk) {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity_key"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).Create(&chunk).Error
		if err != nil {
			return fmt.Errorf("failed to upsert devices: %w", err)
		}
	}
	return nil
}

// records converts devices, keeping the last value per identity key so a
// single statement never updates the same row twice.
func (s *GormStore) records(devices []Device) []deviceRecord {
	index := make(map[string]int, len(devices))
	records := make([]deviceRecord, 0, len(devices))
	now := time.Now()
	for _, d := range devices {
		key := s.scheme.DeviceKey(d)
		rec := deviceRecord{
			IdentityKey: key,
			MaterialID:  d.MaterialID,
			Model:       d.Model,
			Description: d.Description,
			SpareCount:  d.SpareCount,
			Unit:        d.Unit,
			Remark:      d.Remark,
			Status:      string(d.Status),
			UpdatedAt:   now,
		}
		if i, ok := index[key]; ok {
			records[i] = rec
			continue
		}
		index[key] = len(records)
		records = append(records, rec)
	}
	return records
}

func toDevices(records []deviceRecord) []Device {
	devices := make([]Device, len(records))
	for i, r := range records {
		devices[i] = r.device()
	}
	return devices
}

func uniqueMaterialIDs(devices []Device) []string {
	seen := make(map[string]struct{}, len(devices))
	ids := make([]string, 0, len(devices))
	for _, d := range devices {
		if _, ok := seen[d.MaterialID]; ok {
			continue
		}
		seen[d.MaterialID] = struct{}{}
		ids = append(ids, d.MaterialID)
	}
	return ids
}
