package julian

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorNavigation(t *testing.T) {
	c := Cursor{Year: 2025, Month: time.December}
	assert.Equal(t, Cursor{Year: 2026, Month: time.January}, c.Next())
	assert.Equal(t, Cursor{Year: 2025, Month: time.November}, c.Prev())

	c = Cursor{Year: 2025, Month: time.January}
	assert.Equal(t, Cursor{Year: 2024, Month: time.December}, c.Prev())
	assert.Equal(t, c, c.Next().Prev())
}

func TestParseCursor(t *testing.T) {
	c, err := ParseCursor("2025-08")
	require.NoError(t, err)
	assert.Equal(t, Cursor{Year: 2025, Month: time.August}, c)
	assert.Equal(t, "2025-08", c.String())

	_, err = ParseCursor("2025-13")
	assert.Error(t, err)
	_, err = ParseCursor("")
	assert.Error(t, err)
}

func TestCursorSelect(t *testing.T) {
	c := Cursor{Year: 2025, Month: time.August}
	code, err := c.Select(9)
	require.NoError(t, err)
	assert.Equal(t, "22125", code)

	c = Cursor{Year: 2024, Month: time.February}
	code, err = c.Select(29)
	require.NoError(t, err)
	assert.Equal(t, "06024", code)

	c = Cursor{Year: 2025, Month: time.February}
	_, err = c.Select(29)
	assert.Error(t, err)
	_, err = c.Select(0)
	assert.Error(t, err)
}

func TestSetToday(t *testing.T) {
	c, code := SetToday(func() time.Time { return date(2025, time.August, 9) })
	assert.Equal(t, Cursor{Year: 2025, Month: time.August}, c)
	assert.Equal(t, "22125", code)
}

func TestGrid(t *testing.T) {
	c := Cursor{Year: 2025, Month: time.August}
	g := c.Grid("22125", date(2025, time.August, 14))

	assert.Equal(t, "August 2025", g.Title)
	// August 1, 2025 is a Friday.
	assert.Equal(t, 5, g.Leading)
	require.Len(t, g.Cells, 31)
	assert.Equal(t, Cursor{Year: 2025, Month: time.July}, g.Prev)
	assert.Equal(t, Cursor{Year: 2025, Month: time.September}, g.Next)

	for _, cell := range g.Cells {
		assert.Equal(t, cell.Day == 9, cell.Selected, "day %d selected", cell.Day)
		assert.Equal(t, cell.Day == 14, cell.Today, "day %d today", cell.Day)
	}
	assert.Equal(t, "21325", g.Cells[0].Code)
}

func TestGridLeapFebruary(t *testing.T) {
	g := Cursor{Year: 2024, Month: time.February}.Grid("", time.Time{})
	require.Len(t, g.Cells, 29)
	// February 1, 2024 is a Thursday.
	assert.Equal(t, 4, g.Leading)
	for _, cell := range g.Cells {
		assert.False(t, cell.Selected)
		assert.False(t, cell.Today)
	}
}

func TestGridSelectionOutsideMonth(t *testing.T) {
	g := Cursor{Year: 2025, Month: time.July}.Grid("22125", time.Time{})
	for _, cell := range g.Cells {
		assert.False(t, cell.Selected, "day %d", cell.Day)
	}
}
