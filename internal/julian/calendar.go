package julian

import (
	"fmt"
	"time"
)

// Cursor is the month shown by a date picker. It moves independently of the
// selected value.
type Cursor struct {
	Year  int
	Month time.Month
}

// CursorOf returns the cursor for t's month.
func CursorOf(t time.Time) Cursor {
	return Cursor{Year: t.Year(), Month: t.Month()}
}

// ParseCursor parses a "YYYY-MM" cursor as carried in query strings.
func ParseCursor(s string) (Cursor, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Cursor{}, fmt.Errorf("parsing calendar cursor %q: %w", s, err)
	}
	return CursorOf(t), nil
}

// String returns the cursor in "YYYY-MM" form.
func (c Cursor) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, int(c.Month))
}

// Next moves one month forward, rolling December into January of next year.
func (c Cursor) Next() Cursor {
	if c.Month == time.December {
		return Cursor{Year: c.Year + 1, Month: time.January}
	}
	return Cursor{Year: c.Year, Month: c.Month + 1}
}

// Prev moves one month back, rolling January into December of last year.
func (c Cursor) Prev() Cursor {
	if c.Month == time.January {
		return Cursor{Year: c.Year - 1, Month: time.December}
	}
	return Cursor{Year: c.Year, Month: c.Month - 1}
}

// Days returns the number of days in the cursor's month.
func (c Cursor) Days() int {
	return time.Date(c.Year, c.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns the given day of the cursor's month.
func (c Cursor) Date(day int) time.Time {
	return time.Date(c.Year, c.Month, day, 0, 0, 0, 0, time.UTC)
}

// Select encodes the given day of the cursor's month.
func (c Cursor) Select(day int) (string, error) {
	if day < 1 || day > c.Days() {
		return "", fmt.Errorf("day %d not in %s", day, c)
	}
	return Encode(c.Date(day)), nil
}

// SetToday returns the cursor of the current month together with today's code.
func SetToday(now func() time.Time) (Cursor, string) {
	if now == nil {
		now = time.Now
	}
	t := now()
	return CursorOf(t), Encode(t)
}

// Cell is one day of a month grid.
type Cell struct {
	Day      int
	Code     string
	Selected bool
	Today    bool
}

// Grid is a Sunday-first month calendar.
type Grid struct {
	Cursor  Cursor
	Title   string
	Prev    Cursor
	Next    Cursor
	Leading int
	Cells   []Cell
}

// Weekdays are the grid's column headers.
var Weekdays = [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// Grid builds the month grid for the cursor. Cells whose date equals the
// decoded selected code or today's date are flagged; an undecodable selected
// code flags nothing.
func (c Cursor) Grid(selected string, today time.Time) Grid {
	g := Grid{
		Cursor:  c,
		Title:   fmt.Sprintf("%s %d", c.Month, c.Year),
		Prev:    c.Prev(),
		Next:    c.Next(),
		Leading: int(c.Date(1).Weekday()),
	}

	sel, err := Decode(selected)
	hasSel := err == nil

	n := c.Days()
	g.Cells = make([]Cell, 0, n)
	for day := 1; day <= n; day++ {
		d := c.Date(day)
		g.Cells = append(g.Cells, Cell{
			Day:      day,
			Code:     Encode(d),
			Selected: hasSel && sameDay(d, sel),
			Today:    sameDay(d, today),
		})
	}
	return g
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
