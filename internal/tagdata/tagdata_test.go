package tagdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/rfidash/internal/model"
)

func item(sku, lot, uid, initials, date string) model.Item {
	return model.Item{SKU: sku, Lot: lot, UID: uid, ReceivedBy: initials, Date: date}
}

func TestCompose(t *testing.T) {
	got, err := Compose(item("5", "A6", "B3", "DC", "22125"))
	require.NoError(t, err)
	assert.Equal(t, "5A6B3DC22125", got)

	// One extra character is dropped.
	got, err = Compose(item("5", "A6", "B3", "DCX", "22125"))
	require.NoError(t, err)
	assert.Equal(t, "5A6B3DCX2212", got)
	assert.Len(t, got, MaxLength)

	got, err = Compose(item("Hex bolts M8", "LOT-2025-01", "U-1", "DC", "22125"))
	require.NoError(t, err)
	assert.Equal(t, "Hex bolts M8", got)

	got, err = Compose(item("", "", "B3", "", ""))
	require.NoError(t, err)
	assert.Equal(t, "B3", got)
}

func TestComposeEmpty(t *testing.T) {
	_, err := Compose(model.Item{})
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("5A6B3DC22125"))
	assert.ErrorIs(t, Validate(""), ErrEmptyPayload)
	assert.ErrorIs(t, Validate("5A6B3DC221250"), ErrPayloadTooLong)
	assert.ErrorIs(t, Validate("č"), ErrNotASCII)
	assert.ErrorIs(t, Validate("a\tb"), ErrNotASCII)
}

func TestParseFixed(t *testing.T) {
	it, err := ParseFixed("5A6B3DC22125")
	require.NoError(t, err)
	assert.Equal(t, "5", it.SKU)
	assert.Equal(t, "A6", it.Lot)
	assert.Equal(t, "B3", it.UID)
	assert.Equal(t, "DC", it.ReceivedBy)
	assert.Equal(t, "22125", it.Date)
	assert.Equal(t, model.StatusActive, it.Status)

	composed, err := Compose(it)
	require.NoError(t, err)
	assert.Equal(t, "5A6B3DC22125", composed)

	_, err = ParseFixed("5A6B3DC2212")
	assert.ErrorIs(t, err, ErrLayout)
	_, err = ParseFixed("")
	assert.ErrorIs(t, err, ErrLayout)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "68656C6C6F", ToHex("hello"))
	assert.Equal(t, "hello", FromHex("68656C6C6F"))
	assert.Equal(t, "hello", FromHex("68656c6c6f"))
	assert.Equal(t, "", FromHex("6865 6C"))
	assert.Equal(t, "", FromHex("zz"))
	assert.Equal(t, "", FromHex("FF"))
	assert.Equal(t, "", ToHex(""))
}
