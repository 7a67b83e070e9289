package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/rfidash/internal/tagdata"
)

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestLabelFixedLayout(t *testing.T) {
	data, err := Label("5A6B3DC22125")
	require.NoError(t, err)
	img := decode(t, data)

	b := img.Bounds()
	assert.GreaterOrEqual(t, b.Dx(), tagdata.MaxLength*8*moduleW+2*margin)
	// Title, three text lines and the bit strip.
	assert.Equal(t, margin+lineH*Scale+gap+3*(lineH+gap)+stripH+margin, b.Dy())

	r, g, bl, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, bl}, "background should be white")
}

func TestLabelFreeText(t *testing.T) {
	short, err := Label("HELLO")
	require.NoError(t, err)
	full, err := Label("5A6B3DC22125")
	require.NoError(t, err)

	// Free text has no decoded field lines.
	assert.Less(t, decode(t, short).Bounds().Dy(), decode(t, full).Bounds().Dy())
}

func TestLabelBits(t *testing.T) {
	data, err := Label("A")
	require.NoError(t, err)
	img := decode(t, data)

	y := img.Bounds().Dy() - margin - 1
	isBlack := func(bit int) bool {
		return color.GrayModel.Convert(img.At(margin+bit*moduleW, y)).(color.Gray).Y == 0
	}
	// 'A' is 0x41: 01000001.
	want := []bool{false, true, false, false, false, false, false, true}
	for i, w := range want {
		assert.Equal(t, w, isBlack(i), "bit %d", i)
	}
	// Padding bytes are zero.
	assert.False(t, isBlack(8))
}

func TestLabelRejectsInvalidPayload(t *testing.T) {
	_, err := Label("")
	assert.ErrorIs(t, err, tagdata.ErrEmptyPayload)
	_, err = Label("0123456789ABC")
	assert.ErrorIs(t, err, tagdata.ErrPayloadTooLong)
}
