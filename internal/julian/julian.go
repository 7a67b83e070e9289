// Package julian converts between calendar dates and the DDDYY receipt date
// codes printed on inventory tags: a zero-padded 3-digit day of year followed
// by a zero-padded 2-digit year within the 2000s.
//
// This is not the astronomical Julian Day Number.
package julian

import (
	"errors"
	"fmt"
	"time"
)

// Length is the fixed length of an encoded date.
const Length = 5

// Century is the base added to the 2-digit year when decoding.
const Century = 2000

var (
	// ErrInvalidFormat is returned when a code is not exactly 5 ASCII digits.
	ErrInvalidFormat = errors.New("julian date must be exactly 5 digits (DDDYY)")

	// ErrOutOfRange is returned by DecodeStrict for day 0 or a day past the
	// end of the year.
	ErrOutOfRange = errors.New("julian day out of range for year")
)

// Encode returns the DDDYY code of t's calendar date.
func Encode(t time.Time) string {
	yy := t.Year() % 100
	if yy < 0 {
		yy += 100
	}
	return fmt.Sprintf("%03d%02d", t.YearDay(), yy)
}

// Today returns the code of the current date as reported by now.
// A nil now uses time.Now.
func Today(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return Encode(now())
}

// Validate reports whether code is exactly 5 ASCII digits.
func Validate(code string) error {
	if len(code) != Length {
		return ErrInvalidFormat
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return ErrInvalidFormat
		}
	}
	return nil
}

// Decode returns the date encoded by code, at midnight UTC.
//
// The day number is counted from the last day of the prior year, so values
// beyond the length of the year roll over into the next one and day 0 is
// December 31 of the previous year.
func Decode(code string) (time.Time, error) {
	day, year, err := split(code)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.January, day, 0, 0, 0, 0, time.UTC), nil
}

// DecodeStrict is Decode without rollover: day 0 and days past the end of the
// year fail with ErrOutOfRange.
func DecodeStrict(code string) (time.Time, error) {
	day, year, err := split(code)
	if err != nil {
		return time.Time{}, err
	}
	if day < 1 || day > DaysIn(year) {
		return time.Time{}, fmt.Errorf("%w: day %d of %d", ErrOutOfRange, day, year)
	}
	return time.Date(year, time.January, day, 0, 0, 0, 0, time.UTC), nil
}

// DaysIn returns the number of days in the given year.
func DaysIn(year int) int {
	if IsLeap(year) {
		return 366
	}
	return 365
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Display renders code as DD/MM/YYYY for tables. Empty codes render as
// "N/A" and malformed ones as "Invalid date".
func Display(code string) string {
	if code == "" {
		return "N/A"
	}
	t, err := Decode(code)
	if err != nil {
		return "Invalid date"
	}
	return t.Format("02/01/2006")
}

// Long renders t as "August 9, 2025".
func Long(t time.Time) string {
	return t.Format("January 2, 2006")
}

func split(code string) (day, year int, err error) {
	if err := Validate(code); err != nil {
		return 0, 0, err
	}
	day = int(code[0]-'0')*100 + int(code[1]-'0')*10 + int(code[2]-'0')
	year = Century + int(code[3]-'0')*10 + int(code[4]-'0')
	return day, year, nil
}
