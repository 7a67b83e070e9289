package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/rfidash/internal/julian"
)

// Item is an inventory record as kept by the RFID inventory service.
type Item struct {
	SKU        string `json:"sku"`
	Lot        string `json:"lot"`
	UID        string `json:"uid"`
	ReceivedBy string `json:"received_by"`
	Date       string `json:"date"`
	Status     Status `json:"status"`
	Price      *Price `json:"price,omitempty"`
}

// MaxInitialsLength is the longest accepted received_by value.
const MaxInitialsLength = 5

// Status is the binary inventory state of an item.
type Status string

// Item statuses.
const (
	StatusActive Status = "1"
	StatusExited Status = "0"
)

// Valid reports whether s is one of the two known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusExited
}

// Label returns the human-readable status.
func (s Status) Label() string {
	if s == StatusExited {
		return "Exited"
	}
	return "Active"
}

// Active reports whether the item is currently in inventory.
func (it Item) Active() bool {
	return it.Status != StatusExited
}

// Normalize uppercases the initials and fills in defaults for records that
// arrive without a status.
func (it *Item) Normalize() {
	it.ReceivedBy = strings.ToUpper(strings.TrimSpace(it.ReceivedBy))
	if it.Status == "" {
		it.Status = StatusActive
	}
}

// Price is a non-negative currency amount. It is encoded in JSON as a bare
// number with two decimals.
type Price struct {
	decimal.Decimal
}

// NewPrice wraps a decimal amount.
func NewPrice(d decimal.Decimal) *Price {
	return &Price{Decimal: d}
}

// ParsePrice parses a form value. An empty string means no price.
func ParsePrice(s string) (*Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parsing price %q: %w", s, err)
	}
	return NewPrice(d), nil
}

// String returns the amount with two decimals.
func (p Price) String() string {
	return p.StringFixed(2)
}

// MarshalJSON implements json.Marshaler.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.StringFixed(2)), nil
}

// UnmarshalJSON accepts both quoted and bare numbers.
func (p *Price) UnmarshalJSON(b []byte) error {
	return p.Decimal.UnmarshalJSON(b)
}

// ValidationError reports the first invalid field of an item.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// Validate checks the record invariants shared by the dashboard forms and the
// service stand-in. Call Normalize first.
func (it Item) Validate() error {
	switch {
	case it.SKU == "":
		return invalid("sku", "required")
	case it.Lot == "":
		return invalid("lot", "required")
	case it.UID == "":
		return invalid("uid", "required")
	case it.ReceivedBy == "":
		return invalid("received_by", "required")
	case len(it.ReceivedBy) > MaxInitialsLength:
		return invalid("received_by", fmt.Sprintf("at most %d characters", MaxInitialsLength))
	}
	if err := julian.Validate(it.Date); err != nil {
		return invalid("date", err.Error())
	}
	if !it.Status.Valid() {
		return invalid("status", fmt.Sprintf("must be %q or %q", StatusActive, StatusExited))
	}
	if it.Price != nil && it.Price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	return nil
}

// ItemInput is the raw content of the add and edit forms.
type ItemInput struct {
	SKU        string
	Lot        string
	UID        string
	ReceivedBy string
	Date       string
	Price      string
	Status     string
}

// Item normalizes the form values and validates the result. Fields are
// trimmed, initials uppercased, an empty date becomes today's code and an
// empty status becomes active.
func (in ItemInput) Item(now func() time.Time) (Item, error) {
	it := Item{
		SKU:        strings.TrimSpace(in.SKU),
		Lot:        strings.TrimSpace(in.Lot),
		UID:        strings.TrimSpace(in.UID),
		ReceivedBy: strings.ToUpper(strings.TrimSpace(in.ReceivedBy)),
		Date:       strings.TrimSpace(in.Date),
		Status:     Status(strings.TrimSpace(in.Status)),
	}
	if it.Date == "" {
		it.Date = julian.Today(now)
	}
	if it.Status == "" {
		it.Status = StatusActive
	}

	price, err := ParsePrice(in.Price)
	if err != nil {
		return Item{}, invalid("price", "must be a number")
	}
	if price != nil {
		price = NewPrice(price.Round(2))
	}
	it.Price = price

	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	return it, nil
}

// InputOf returns the form values of an existing item.
func InputOf(it Item) ItemInput {
	in := ItemInput{
		SKU:        it.SKU,
		Lot:        it.Lot,
		UID:        it.UID,
		ReceivedBy: it.ReceivedBy,
		Date:       it.Date,
		Status:     string(it.Status),
	}
	if it.Price != nil {
		in.Price = it.Price.String()
	}
	return in
}
