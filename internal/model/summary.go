package model

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/rfidash/internal/julian"
)

// Summary holds the dashboard stat card figures.
type Summary struct {
	Total  int
	Active int
	// Value is the summed price of active items; items without a price count as zero.
	Value decimal.Decimal
}

// Summarize computes the stat card figures for a list of items.
func Summarize(items []Item) Summary {
	s := Summary{Total: len(items), Value: decimal.Zero}
	for _, it := range items {
		if !it.Active() {
			continue
		}
		s.Active++
		if it.Price != nil {
			s.Value = s.Value.Add(it.Price.Decimal)
		}
	}
	return s
}

// Filter returns the items matching a case-insensitive search term on uid,
// sku, lot, initials, displayed receipt date or status label. An empty term
// matches everything.
func Filter(items []Item, term string) []Item {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}

	var out []Item
	for _, it := range items {
		if matches(it, term) {
			out = append(out, it)
		}
	}
	return out
}

func matches(it Item, term string) bool {
	fields := []string{it.UID, it.SKU, it.Lot, it.ReceivedBy}
	if it.Date != "" {
		fields = append(fields, julian.Display(it.Date))
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(it.Status.Label()), term)
}
