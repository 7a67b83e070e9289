package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/rfidash/internal/model"
)

// RecordTagWrite stores a payload written by the simulated writer.
func RecordTagWrite(ctx context.Context, db *sql.DB, payload string) error {
	if _, err := db.ExecContext(ctx, `INSERT INTO tag_writes (payload) VALUES (?)`, payload); err != nil {
		return fmt.Errorf("recording tag write: %w", err)
	}
	return nil
}

// ListTagWrites returns the most recent tag writes, newest first.
func ListTagWrites(ctx context.Context, db *sql.DB, limit int) ([]model.TagWrite, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, payload, written_at FROM tag_writes ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tag writes: %w", err)
	}
	defer rows.Close()

	var writes []model.TagWrite
	for rows.Next() {
		var w model.TagWrite
		if err := rows.Scan(&w.ID, &w.Payload, &w.WrittenAt); err != nil {
			return nil, fmt.Errorf("scanning tag write: %w", err)
		}
		writes = append(writes, w)
	}
	return writes, rows.Err()
}
