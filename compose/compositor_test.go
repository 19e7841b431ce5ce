package compose

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePayload(t *testing.T, p *Payload) image.Image {
	t.Helper()
	img, _, err := Decode(p.Data)
	require.NoError(t, err)
	return img
}

func TestCompositor_ColorScenario(t *testing.T) {
	t.Parallel()

	fg := solid(2, 2, red)
	fg.SetNRGBA(1, 0, transparent)

	p, err := NewCompositor().Composite(context.Background(), fg, ColorBackground(blue), FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, p.Format)

	out := decodePayload(t, p)
	assert.Equal(t, image.Pt(2, 2), out.Bounds().Size())
	assert.Equal(t, red, nrgbaAt(out, 0, 0))
	assert.Equal(t, blue, nrgbaAt(out, 1, 0))
	assert.Equal(t, red, nrgbaAt(out, 0, 1))
	assert.Equal(t, red, nrgbaAt(out, 1, 1))
}

func TestBlend(t *testing.T) {
	t.Parallel()

	bg := solid(3, 2, color.NRGBA{R: 12, G: 34, B: 56, A: 0xff})
	bg.SetNRGBA(2, 1, color.NRGBA{R: 200, G: 1, B: 2, A: 0xff})

	t.Run("opaque foreground wins", func(t *testing.T) {
		t.Parallel()
		fg := solid(3, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 0xff})
		fg.SetNRGBA(0, 1, color.NRGBA{R: 250, G: 150, B: 50, A: 0xff})
		out, err := Blend(fg, bg)
		require.NoError(t, err)
		assert.Equal(t, fg.Pix, out.Pix)
	})

	t.Run("transparent foreground shows background", func(t *testing.T) {
		t.Parallel()
		fg := solid(3, 2, color.NRGBA{R: 99, G: 99, B: 99, A: 0})
		out, err := Blend(fg, bg)
		require.NoError(t, err)
		assert.Equal(t, bg.Pix, out.Pix)
	})

	t.Run("partial alpha is blended", func(t *testing.T) {
		t.Parallel()
		fg := solid(1, 1, color.NRGBA{R: 200, G: 100, A: 128})
		out, err := Blend(fg, solid(1, 1, blue))
		require.NoError(t, err)
		assert.Equal(t, color.NRGBA{R: 100, G: 50, B: 127, A: 0xff}, out.NRGBAAt(0, 0))
	})

	t.Run("result is opaque over a translucent background", func(t *testing.T) {
		t.Parallel()
		out, err := Blend(solid(2, 2, transparent), solid(2, 2, color.NRGBA{B: 0xff, A: 0x10}))
		require.NoError(t, err)
		assertOpaque(t, out)
	})

	t.Run("size mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := Blend(solid(2, 2, red), solid(3, 2, blue))
		assert.ErrorIs(t, err, ErrComposition)
	})
}

func TestCompositor_ImageBackgroundIsResized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		bgSize image.Point
	}{
		{"smaller", image.Pt(2, 2)},
		{"larger", image.Pt(17, 9)},
		{"same", image.Pt(6, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bg := encodePNG(t, solid(tt.bgSize.X, tt.bgSize.Y, green))
			fg := solid(6, 4, transparent)

			out, err := NewCompositor().Render(context.Background(), fg, ImageBackground(bg))
			require.NoError(t, err)
			assert.Equal(t, image.Pt(6, 4), out.Bounds().Size())
			assertOpaque(t, out)

			px := out.NRGBAAt(3, 2)
			assert.InDelta(t, 0, int(px.R), 2)
			assert.InDelta(t, 255, int(px.G), 2)
			assert.InDelta(t, 0, int(px.B), 2)
		})
	}
}

func TestCompositor_JPEGHasNoAlpha(t *testing.T) {
	t.Parallel()

	fg := solid(8, 8, transparent)
	fg.SetNRGBA(4, 4, color.NRGBA{R: 0xff, A: 0x80})

	p, err := NewCompositor(WithJPEGQuality(90)).Composite(context.Background(), fg, ColorBackground(green), FormatJPEG)
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, p.Format)
	assert.True(t, strings.HasPrefix(p.DataURL(), "data:image/jpeg;base64,"))

	img, err := jpeg.Decode(bytes.NewReader(p.Data))
	require.NoError(t, err)
	assert.IsType(t, &image.YCbCr{}, img)
	assert.Equal(t, image.Pt(8, 8), img.Bounds().Size())
}

func TestCompositor_CompositeBytes(t *testing.T) {
	t.Parallel()

	fg := encodePNG(t, solid(3, 3, red))
	p, err := NewCompositor().CompositeBytes(context.Background(), fg, ColorBackground(blue), FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, red, nrgbaAt(decodePayload(t, p), 1, 1))

	_, err = NewCompositor().CompositeBytes(context.Background(), []byte("nope"), ColorBackground(blue), FormatPNG)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCompositor_Errors(t *testing.T) {
	t.Parallel()

	c := NewCompositor()
	ctx := context.Background()

	_, err := c.Render(ctx, solid(2, 2, red), BackgroundSpec{Kind: "shape"})
	assert.ErrorIs(t, err, ErrInvalidBackground)

	_, err = c.Render(ctx, solid(2, 2, red), ImageBackground([]byte("not an image")))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = c.Render(ctx, image.NewNRGBA(image.Rect(0, 0, 0, 0)), ColorBackground(blue))
	assert.ErrorIs(t, err, ErrComposition)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.Composite(cancelled, solid(2, 2, red), ColorBackground(blue), FormatPNG)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResizeTo(t *testing.T) {
	t.Parallel()

	src := solid(4, 4, red)
	assert.Same(t, image.Image(src), resizeTo(src, 4, 4))
	assert.Equal(t, image.Pt(9, 3), resizeTo(src, 9, 3).Bounds().Size())
}
