package compose

import (
	"image"
	"image/color"
	"strconv"

	"github.com/nfnt/resize"
)

// BackgroundKind tags a BackgroundSpec.
type BackgroundKind string

const (
	BackgroundColor BackgroundKind = "color"
	BackgroundImage BackgroundKind = "image"
)

// BackgroundSpec is what the foreground gets composited onto: a solid color
// or an encoded image. Only the field matching Kind is meaningful.
type BackgroundSpec struct {
	Kind  BackgroundKind
	Color color.NRGBA
	Image []byte
}

func ColorBackground(c color.NRGBA) BackgroundSpec {
	return BackgroundSpec{Kind: BackgroundColor, Color: c}
}

func ImageBackground(data []byte) BackgroundSpec {
	return BackgroundSpec{Kind: BackgroundImage, Image: data}
}

// ParseBackground builds a BackgroundSpec from the wire fields. A color value
// is a color literal; an image value is a data URL or bare base64 string.
func ParseBackground(kind, value string) (BackgroundSpec, error) {
	switch BackgroundKind(kind) {
	case BackgroundColor:
		c, err := ParseColor(value)
		if err != nil {
			return BackgroundSpec{}, err
		}
		return ColorBackground(c), nil
	case BackgroundImage:
		if value == "" {
			return BackgroundSpec{}, newError(KindInvalidEncoding, "no background image provided", nil)
		}
		data, err := DecodePayload(value)
		if err != nil {
			return BackgroundSpec{}, err
		}
		return ImageBackground(data), nil
	default:
		return BackgroundSpec{}, newError(KindInvalidBackground, "invalid background type "+strconv.Quote(kind), nil)
	}
}

// resizeTo scales img to exactly w x h with a Lanczos3 filter. Images that
// already have the requested size are returned untouched.
func resizeTo(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
}
