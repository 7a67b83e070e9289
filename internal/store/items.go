package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/rfidash/internal/model"
)

const itemColumns = `uid, sku, lot, received_by, date, status, price`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (model.Item, error) {
	var item model.Item
	var price sql.NullString
	if err := s.Scan(&item.UID, &item.SKU, &item.Lot, &item.ReceivedBy, &item.Date, &item.Status, &price); err != nil {
		return model.Item{}, err
	}
	if price.Valid {
		p, err := model.ParsePrice(price.String)
		if err != nil {
			return model.Item{}, err
		}
		item.Price = p
	}
	return item, nil
}

func priceValue(p *model.Price) any {
	if p == nil {
		return nil
	}
	return p.String()
}

// AddItem inserts an item. It reports false without error when an item with
// the same UID already exists.
func AddItem(ctx context.Context, db *sql.DB, item model.Item) (bool, error) {
	item.Normalize()
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(uid) DO NOTHING`,
		item.UID, item.SKU, item.Lot, item.ReceivedBy, item.Date, string(item.Status), priceValue(item.Price),
	)
	if err != nil {
		return false, fmt.Errorf("adding item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking added item: %w", err)
	}
	return n == 1, nil
}

// FindItem returns the item with uid, or nil if there is none.
func FindItem(ctx context.Context, db *sql.DB, uid string) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE uid = ?`, uid,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding item: %w", err)
	}
	return &item, nil
}

// ListItems returns all items in insertion order.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem replaces every field of the item with uid except the UID itself.
// It reports whether the item existed.
func UpdateItem(ctx context.Context, db *sql.DB, uid string, item model.Item) (bool, error) {
	item.Normalize()
	result, err := db.ExecContext(ctx,
		`UPDATE items SET sku = ?, lot = ?, received_by = ?, date = ?, status = ?, price = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE uid = ?`,
		item.SKU, item.Lot, item.ReceivedBy, item.Date, string(item.Status), priceValue(item.Price), uid,
	)
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	return affected(result, "updating item")
}

// ExitItem marks the item with uid as exited. It reports whether the item
// existed.
func ExitItem(ctx context.Context, db *sql.DB, uid string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE uid = ?`,
		string(model.StatusExited), uid,
	)
	if err != nil {
		return false, fmt.Errorf("exiting item: %w", err)
	}
	return affected(result, "exiting item")
}

// DeleteItem removes the item with uid. It reports whether the item existed.
func DeleteItem(ctx context.Context, db *sql.DB, uid string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE uid = ?`, uid)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return affected(result, "deleting item")
}

// CountBySKU returns the number of items with the given SKU.
func CountBySKU(ctx context.Context, db *sql.DB, sku string) (int, error) {
	return count(ctx, db, `SELECT COUNT(*) FROM items WHERE sku = ?`, sku)
}

// CountByLot returns the number of items in the given lot.
func CountByLot(ctx context.Context, db *sql.DB, lot string) (int, error) {
	return count(ctx, db, `SELECT COUNT(*) FROM items WHERE lot = ?`, lot)
}

func count(ctx context.Context, db *sql.DB, query string, arg string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, query, arg).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

func affected(result sql.Result, op string) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
