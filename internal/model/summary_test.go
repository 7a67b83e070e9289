package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleItems() []Item {
	return []Item{
		{SKU: "Bolt", Lot: "A6", UID: "B3", ReceivedBy: "DC", Date: "22125", Status: StatusActive, Price: NewPrice(decimal.RequireFromString("10.25"))},
		{SKU: "Nut", Lot: "A7", UID: "C4", ReceivedBy: "JM", Date: "00125", Status: StatusExited, Price: NewPrice(decimal.RequireFromString("99"))},
		{SKU: "Washer", Lot: "B1", UID: "D5", ReceivedBy: "DC", Date: "36624", Status: StatusActive},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleItems())
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, "10.25", s.Value.StringFixed(2), "only active items count")

	empty := Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.True(t, empty.Value.IsZero())
}

func TestFilter(t *testing.T) {
	items := sampleItems()

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"B3", "C4", "D5"}},
		{"c4", []string{"C4"}},
		{"wash", []string{"D5"}},
		{"dc", []string{"B3", "D5"}},
		{"09/08/2025", []string{"B3"}},
		{"2024", []string{"D5"}},
		{"exit", []string{"C4"}},
		{"active", []string{"B3", "D5"}},
		{"nothing", nil},
	}

	for _, tt := range tests {
		var uids []string
		for _, it := range Filter(items, tt.term) {
			uids = append(uids, it.UID)
		}
		assert.Equal(t, tt.want, uids, "Filter(%q)", tt.term)
	}
}
