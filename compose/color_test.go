package compose

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "red", want: red},
		{in: "Blue", want: blue},
		{in: " white ", want: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{in: "steelblue", want: color.NRGBA{R: 70, G: 130, B: 180, A: 0xff}},
		{in: "#0000FF", want: blue},
		{in: "#00ff00", want: green},
		{in: "#00FF0080", want: color.NRGBA{G: 0xff, A: 0x80}},
		{in: "#f00", want: red},
		{in: "#f008", want: color.NRGBA{R: 0xff, A: 0x88}},
		{in: "", wantErr: true},
		{in: "notacolor", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#GGGGGG", wantErr: true},
		{in: "#", wantErr: true},
		{in: "0000FF", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBackground(t *testing.T) {
	t.Parallel()

	spec, err := ParseBackground("color", "#0000FF")
	require.NoError(t, err)
	assert.Equal(t, ColorBackground(blue), spec)

	img := encodePNG(t, solid(1, 1, green))
	spec, err = ParseBackground("image", EncodePayload(img, FormatPNG))
	require.NoError(t, err)
	assert.Equal(t, BackgroundImage, spec.Kind)
	assert.Equal(t, img, spec.Image)

	_, err = ParseBackground("image", "")
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = ParseBackground("image", "!!!")
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = ParseBackground("color", "nope")
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = ParseBackground("shape", "circle")
	assert.ErrorIs(t, err, ErrInvalidBackground)
}
