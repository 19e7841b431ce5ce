package compose

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
)

// Encode writes img in container f. JPEG output is flattened first and
// written at the given quality; PNG output uses the best compression level.
func Encode(img *image.NRGBA, f Format, quality int) (*Payload, error) {
	var buf bytes.Buffer
	switch f {
	case FormatJPEG:
		buf.Grow(256 * 1024)
		if err := jpeg.Encode(&buf, FlattenForOutput(img, f), &jpeg.Options{Quality: quality}); err != nil {
			return nil, newError(KindComposition, "encode jpeg", err)
		}
	default:
		buf.Grow(512 * 1024)
		enc := &png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, newError(KindComposition, "encode png", err)
		}
		f = FormatPNG
	}
	return &Payload{Data: buf.Bytes(), Format: f}, nil
}
