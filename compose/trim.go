package compose

import (
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// AlphaBounds returns the smallest rectangle holding every pixel whose alpha
// is above threshold. ok is false when there is no such pixel.
func AlphaBounds(img *image.NRGBA, threshold uint8) (r image.Rectangle, ok bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[row+(x-b.Min.X)*4+3] <= threshold {
				continue
			}
			ok = true
			minX, minY = min(minX, x), min(minY, y)
			maxX, maxY = max(maxX, x), max(maxY, y)
		}
	}
	if !ok {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// Trim crops img to the subject found by AlphaBounds. With square set the
// crop is the largest square centered on the subject that fits in img.
func Trim(img *image.NRGBA, threshold uint8, square bool) (*image.NRGBA, error) {
	bbox, ok := AlphaBounds(img, threshold)
	if !ok {
		return nil, newError(KindComposition, "no foreground above alpha threshold", nil)
	}
	if square {
		bbox = squareAround(bbox).Intersect(img.Bounds())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, bbox.Dx(), bbox.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bbox.Min, draw.Src)
	return dst, nil
}

func squareAround(r image.Rectangle) image.Rectangle {
	size := max(r.Dx(), r.Dy())
	cx := r.Min.X + r.Dx()/2
	cy := r.Min.Y + r.Dy()/2
	minX, minY := cx-size/2, cy-size/2
	return image.Rect(minX, minY, minX+size, minY+size)
}

// FitWithin scales img down so its longest side is at most maxSide. Smaller
// images and a non-positive maxSide return img unchanged.
func FitWithin(img *image.NRGBA, maxSide int) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	longest := max(w, h)
	if maxSide <= 0 || longest <= maxSide {
		return img
	}

	scale := float64(maxSide) / float64(longest)
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))
	return ToRGBA(resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3))
}
