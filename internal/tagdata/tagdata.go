// Package tagdata builds the ASCII payloads written to RFID tags.
package tagdata

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/rfidash/internal/model"
)

// MaxLength is the EPC capacity in bytes (6 words).
const MaxLength = 12

var (
	ErrEmptyPayload   = errors.New("tag payload is empty")
	ErrPayloadTooLong = fmt.Errorf("tag payload exceeds %d characters", MaxLength)
	ErrNotASCII       = errors.New("tag payload must be printable ASCII")
	ErrLayout         = errors.New("tag payload does not match the fixed item layout")
)

// Compose concatenates sku, lot, uid, initials and date, and truncates the
// result to MaxLength. There is no delimiter, so the fields of a composed
// payload cannot in general be recovered.
func Compose(it model.Item) (string, error) {
	payload := it.SKU + it.Lot + it.UID + it.ReceivedBy + it.Date
	if len(payload) > MaxLength {
		payload = payload[:MaxLength]
	}
	if err := Validate(payload); err != nil {
		return "", err
	}
	return payload, nil
}

// Validate checks a payload before it is sent to the writer.
func Validate(payload string) error {
	if payload == "" {
		return ErrEmptyPayload
	}
	if len(payload) > MaxLength {
		return ErrPayloadTooLong
	}
	for i := 0; i < len(payload); i++ {
		if payload[i] < 0x20 || payload[i] > 0x7e {
			return ErrNotASCII
		}
	}
	return nil
}

// Field widths of the fixed tag layout: [SKU][LOT][UID][INITIALS][DATE].
var layout = [...]int{1, 2, 2, 2, 5}

// ParseFixed reads a payload laid out with the fixed field widths of the
// original tags, e.g. "5A6B3DC22125". The returned item is active.
func ParseFixed(epc string) (model.Item, error) {
	epc = strings.TrimSpace(epc)
	if len(epc) != MaxLength {
		return model.Item{}, fmt.Errorf("%w: got %d characters, want %d", ErrLayout, len(epc), MaxLength)
	}
	if err := Validate(epc); err != nil {
		return model.Item{}, err
	}

	var fields [len(layout)]string
	off := 0
	for i, w := range layout {
		fields[i] = epc[off : off+w]
		off += w
	}

	return model.Item{
		SKU:        fields[0],
		Lot:        fields[1],
		UID:        fields[2],
		ReceivedBy: fields[3],
		Date:       fields[4],
		Status:     model.StatusActive,
	}, nil
}

// ToHex converts ASCII text to uppercase hex without separators.
func ToHex(text string) string {
	return strings.ToUpper(hex.EncodeToString([]byte(text)))
}

// FromHex converts hex without separators back to ASCII. It returns the empty
// string if the input is not valid hex or does not decode to ASCII.
func FromHex(s string) string {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ""
	}
	for _, c := range b {
		if c > 0x7f {
			return ""
		}
	}
	return string(b)
}
