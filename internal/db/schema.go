package db

import (
	"database/sql"
	"fmt"
)

// schema is the stand-in inventory schema. Status is "1" while the item is in
// stock and "0" once it has exited; price is stored as decimal text.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    uid         TEXT PRIMARY KEY,
    sku         TEXT NOT NULL,
    lot         TEXT NOT NULL,
    received_by TEXT NOT NULL,
    date        TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT '1' CHECK (status IN ('0', '1')),
    price       TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tag_writes (
    id         INTEGER PRIMARY KEY,
    payload    TEXT NOT NULL,
    written_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates the base tables if they don't already exist and brings
// the database up to the latest migration. It is safe to call on every start.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return Migrate(db)
}
