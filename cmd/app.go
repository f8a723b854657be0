package cmd

import (
	"fmt"

	"spare-manager/core/config"
	"spare-manager/core/database"
	"spare-manager/core/logger"
	"spare-manager/core/registry"
	"spare-manager/core/storage"

	"go.uber.org/zap"
)

// deps bundles the dependencies every command needs.
type deps struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *registry.GormStore
	registry *registry.Registry
	// storage is nil unless storage.enabled is set.
	storage storage.Client
}

// bootstrap loads configuration, builds the logger and connects to the
// registry database. The database is required; object storage is optional.
func bootstrap() (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	scheme, err := registry.ParseKeyScheme(cfg.Registry.KeyScheme)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := registry.NewGormStore(db, scheme)
	d := &deps{
		cfg:      cfg,
		logger:   l,
		store:    store,
		registry: registry.New(store, scheme, cfg.Registry.CacheTTL(), l),
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		d.storage = client
	}

	l.Info("Registry ready",
		zap.String("driver", cfg.Database.Driver),
		zap.String("key_scheme", string(scheme)),
		zap.Bool("storage", cfg.Storage.Enabled),
	)
	return d, nil
}
