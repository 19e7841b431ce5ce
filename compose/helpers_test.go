package compose

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	red         = color.NRGBA{R: 0xff, A: 0xff}
	blue        = color.NRGBA{B: 0xff, A: 0xff}
	green       = color.NRGBA{G: 0xff, A: 0xff}
	transparent = color.NRGBA{}
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return Fill(w, h, c)
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}
