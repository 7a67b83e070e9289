package db

import (
	"database/sql"
	"fmt"
)

// migrations run in order after the base schema. The index of a migration
// plus one is its version; append new ones at the end and never reorder.
var migrations = []string{
	// 1: lookups by sku and lot back the count endpoints.
	`CREATE INDEX IF NOT EXISTS idx_items_sku ON items(sku);
	 CREATE INDEX IF NOT EXISTS idx_items_lot ON items(lot)`,
}

// Migrate applies the migrations newer than the recorded schema version.
func Migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Version returns the applied schema version.
func Version(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	return version, err
}
