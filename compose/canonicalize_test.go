package compose

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertOpaque(t *testing.T, img *image.NRGBA) {
	t.Helper()
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			t.Fatalf("alpha at byte %d = %d, want 255", i, img.Pix[i])
		}
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("png", func(t *testing.T) {
		t.Parallel()
		img, name, err := Decode(encodePNG(t, solid(3, 2, red)))
		require.NoError(t, err)
		assert.Equal(t, "png", name)
		assert.Equal(t, image.Pt(3, 2), img.Bounds().Size())
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		_, _, err := Decode(nil)
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("not an image", func(t *testing.T) {
		t.Parallel()
		_, _, err := Decode([]byte("definitely not an image"))
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestToRGBA_AddsOpaqueAlpha(t *testing.T) {
	t.Parallel()

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 200})

	cmyk := image.NewCMYK(image.Rect(0, 0, 2, 1))
	cmyk.SetCMYK(0, 0, color.CMYK{C: 0, M: 0xff, Y: 0xff, K: 0})

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(4, 4, blue), nil))
	ycbcr, _, err := Decode(buf.Bytes())
	require.NoError(t, err)

	tests := []struct {
		name string
		img  image.Image
	}{
		{"gray", gray},
		{"cmyk", cmyk},
		{"jpeg", ycbcr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ToRGBA(tt.img)
			assert.Equal(t, tt.img.Bounds().Size(), got.Bounds().Size())
			assertOpaque(t, got)
		})
	}

	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 0xff}, ToRGBA(gray).NRGBAAt(1, 1))
	assert.Equal(t, red, ToRGBA(cmyk).NRGBAAt(0, 0))
}

func TestToRGBA_PreservesAlpha(t *testing.T) {
	t.Parallel()

	t.Run("paletted", func(t *testing.T) {
		t.Parallel()
		pal := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{transparent, red})
		pal.SetColorIndex(1, 0, 1)
		got := ToRGBA(pal)
		assert.Equal(t, uint8(0), got.NRGBAAt(0, 0).A)
		assert.Equal(t, red, got.NRGBAAt(1, 0))
	})

	t.Run("premultiplied", func(t *testing.T) {
		t.Parallel()
		rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
		rgba.SetRGBA(0, 0, color.RGBA{R: 64, A: 128})
		assert.Equal(t, uint8(128), ToRGBA(rgba).NRGBAAt(0, 0).A)
	})

	t.Run("nrgba is returned unchanged", func(t *testing.T) {
		t.Parallel()
		src := solid(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
		assert.Same(t, src, ToRGBA(src))
	})

	t.Run("offset origin is rebased", func(t *testing.T) {
		t.Parallel()
		src := solid(4, 4, red).SubImage(image.Rect(1, 1, 3, 3))
		got := ToRGBA(src)
		assert.Equal(t, image.Rect(0, 0, 2, 2), got.Bounds())
		assert.Equal(t, red, got.NRGBAAt(0, 0))
	})
}

func TestFlattenForOutput(t *testing.T) {
	t.Parallel()

	src := solid(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	png := FlattenForOutput(src, FormatPNG)
	assert.Same(t, src, png)

	jpg := FlattenForOutput(src, FormatJPEG)
	rgba, ok := jpg.(*image.RGBA)
	require.True(t, ok)
	assert.True(t, rgba.Opaque())
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 0xff}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 0xff}, rgba.RGBAAt(1, 0))
}

func TestHasTransparency(t *testing.T) {
	t.Parallel()

	img := solid(2, 2, red)
	assert.False(t, HasTransparency(img))
	img.SetNRGBA(1, 1, color.NRGBA{R: 0xff, A: 0xfe})
	assert.True(t, HasTransparency(img))
}
