// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL (production) or SQLite (local runs, tests)
// connections from the application's configuration, including the pool size
// and the connect/idle timeouts the device registry relies on.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the registry verify, after
// migration, that the devices table actually carries the columns the store
// reads and writes. A legacy table created by hand is reported instead of
// failing later with an obscure SQL error.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "devices", []string{"material_id", "model"})
package database
