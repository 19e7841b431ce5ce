package compose

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode decodes raw container bytes into an image. It returns the name of
// the container format reported by the registered decoder.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", newError(KindDecode, "empty image data", nil)
	}
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", newError(KindDecode, "decode image", err)
	}
	return img, name, nil
}

// ToRGBA returns img in the canonical non-premultiplied RGBA form with its
// origin at (0, 0). A *image.NRGBA already anchored at the origin is returned
// as is. Sources without alpha (YCbCr, Gray, CMYK, opaque palettes) come out
// with alpha 255 on every pixel; sources with alpha keep it exactly.
func ToRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return nrgba
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// FlattenForOutput prepares img for encoding in f. For containers without
// alpha support the alpha channel is dropped and the stored color values are
// kept unchanged; the result is fully opaque. Otherwise img is returned
// unchanged.
func FlattenForOutput(img *image.NRGBA, f Format) image.Image {
	if f.HasAlpha() {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()*4]
		for i := 0; i < len(src); i += 4 {
			out[i] = src[i]
			out[i+1] = src[i+1]
			out[i+2] = src[i+2]
			out[i+3] = 0xff
		}
	}
	return dst
}

// HasTransparency reports whether any pixel of img is not fully opaque.
func HasTransparency(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return true
		}
	}
	return false
}

// Fill returns a w x h canvas painted uniformly with c.
func Fill(w, h int, c color.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return dst
}
