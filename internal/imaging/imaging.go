// Package imaging renders printable PNG labels for tag payloads.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/erazemk/rfidash/internal/julian"
	"github.com/erazemk/rfidash/internal/tagdata"
)

// Label geometry, in pixels.
const (
	// Scale enlarges the payload line.
	Scale = 3

	margin  = 12
	gap     = 6
	moduleW = 2
	stripH  = 18
	lineH   = 13
	ascent  = 11
)

var face = basicfont.Face7x13

// Label renders payload as a PNG: the payload in large type, its hex form,
// the decoded fields when the payload uses the fixed tag layout, and a strip
// of the tag's 96 EPC bits.
func Label(payload string) ([]byte, error) {
	if err := tagdata.Validate(payload); err != nil {
		return nil, err
	}

	lines := []string{tagdata.ToHex(payload)}
	if it, err := tagdata.ParseFixed(payload); err == nil {
		lines = append(lines, fmt.Sprintf("SKU %s  LOT %s  UID %s  BY %s", it.SKU, it.Lot, it.UID, it.ReceivedBy))
		lines = append(lines, "Received "+julian.Display(it.Date))
	}

	title := text(payload)
	titleW, titleH := title.Bounds().Dx()*Scale, title.Bounds().Dy()*Scale

	stripW := tagdata.MaxLength * 8 * moduleW
	width := max(titleW, stripW)
	for _, l := range lines {
		width = max(width, font.MeasureString(face, l).Ceil())
	}
	width += 2 * margin
	height := margin + titleH + gap + len(lines)*(lineH+gap) + stripH + margin

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	y := margin
	draw.NearestNeighbor.Scale(img, image.Rect(margin, y, margin+titleW, y+titleH), title, title.Bounds(), draw.Over, nil)
	y += titleH + gap

	for _, l := range lines {
		drawString(img, l, margin, y)
		y += lineH + gap
	}

	drawBits(img, payload, margin, y)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding label: %w", err)
	}
	return buf.Bytes(), nil
}

// text renders s at the font's native size on a transparent background.
func text(s string) *image.RGBA {
	w := font.MeasureString(face, s).Ceil()
	img := image.NewRGBA(image.Rect(0, 0, w, lineH))
	drawString(img, s, 0, 0)
	return img
}

func drawString(dst draw.Image, s string, x, top int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(x, top+ascent),
	}
	d.DrawString(s)
}

// drawBits draws one module per EPC bit, most significant first. The payload
// is zero-padded to the full 12 bytes as on the tag.
func drawBits(dst *image.RGBA, payload string, x, y int) {
	data := make([]byte, tagdata.MaxLength)
	copy(data, payload)

	black := image.NewUniform(color.Black)
	for i, b := range data {
		for bit := range 8 {
			if b&(0x80>>bit) == 0 {
				continue
			}
			x0 := x + (i*8+bit)*moduleW
			draw.Draw(dst, image.Rect(x0, y, x0+moduleW, y+stripH), black, image.Point{}, draw.Src)
		}
	}
}
