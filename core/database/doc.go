// Package database handles database connections and schema inspection.
//
// It wraps GORM to open the reconciliation store. MySQL is used in production;
// SQLite (including ":memory:") backs local runs and tests. Duplicate key errors are
// translated to gorm.ErrDuplicatedKey so callers can detect unique constraint races.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the integrity command verify that the
// booking tables carry the columns the reconciliation engine writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "booking_links", []string{"external_booking_id"})
package database
