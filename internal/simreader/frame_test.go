package simreader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/rfidash/internal/tagdata"
)

func TestWriteFrame(t *testing.T) {
	got, err := WriteFrame("5A6B3DC22125")
	require.NoError(t, err)

	want := []byte{
		0xAA, 0x00, 0x49, 0x00, 0x15,
		0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x02, 0x00, 0x06,
		'5', 'A', '6', 'B', '3', 'D', 'C', '2', '2', '1', '2', '5',
	}
	var sum byte
	for _, b := range want[1:] {
		sum += b
	}
	want = append(want, sum, 0xDD)
	assert.Equal(t, want, got)
}

func TestWriteFramePadsShortPayload(t *testing.T) {
	got, err := WriteFrame("AB")
	require.NoError(t, err)
	assert.Len(t, got, 5+9+12+2)
	assert.Equal(t, []byte{'A', 'B', 0, 0}, got[14:18])
}

func TestWriteFrameRejectsLongPayload(t *testing.T) {
	_, err := WriteFrame("0123456789ABC")
	assert.ErrorIs(t, err, tagdata.ErrPayloadTooLong)
}

func TestNotificationRoundTrip(t *testing.T) {
	data := append(NotificationFrame("5A6B3DC22125"), NotificationFrame("TAG")...)
	epcs, err := ParseNotifications(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"5A6B3DC22125", "TAG"}, epcs)
}

func TestParseSkipsOtherFrames(t *testing.T) {
	data := append([]byte{0x00, 0x11}, ReadCommand...)
	data = append(data, NotificationFrame("X1")...)

	epcs, err := ParseNotifications(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"X1"}, epcs)
}

func TestParseRejectsCorruptFrames(t *testing.T) {
	good := NotificationFrame("GOOD")

	bad := NotificationFrame("BAD")
	bad[10] ^= 0xFF
	epcs, err := ParseNotifications(append(append([]byte{}, good...), bad...))
	assert.Error(t, err, "checksum mismatch")
	assert.Equal(t, []string{"GOOD"}, epcs)

	_, err = ParseNotifications(good[:len(good)-3])
	assert.Error(t, err, "truncated frame")
}
