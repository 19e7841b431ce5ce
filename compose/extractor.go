package compose

import (
	"context"
	"errors"
	"image"

	"go.uber.org/zap"
)

// Segmenter isolates the subject of an image. The returned image carries the
// subject mask in its alpha channel.
type Segmenter interface {
	Segment(ctx context.Context, img *image.NRGBA) (image.Image, error)
}

// SegmenterFunc adapts a function to the Segmenter interface.
type SegmenterFunc func(ctx context.Context, img *image.NRGBA) (image.Image, error)

func (f SegmenterFunc) Segment(ctx context.Context, img *image.NRGBA) (image.Image, error) {
	return f(ctx, img)
}

// Extractor decodes an upload, normalizes it and hands it to a Segmenter.
// Segmentation failures are returned as they are; there is no retry.
type Extractor struct {
	seg  Segmenter
	opts options
}

func NewExtractor(seg Segmenter, opts ...Option) *Extractor {
	return &Extractor{seg: seg, opts: newOptions(opts)}
}

// Extract returns the segmented foreground of raw.
func (e *Extractor) Extract(ctx context.Context, raw []byte) (*image.NRGBA, error) {
	img, name, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	src := FitWithin(ToRGBA(img), e.opts.maxSide)
	e.opts.logger.Debug("decoded upload",
		zap.String("container", name),
		zap.Int("width", src.Bounds().Dx()),
		zap.Int("height", src.Bounds().Dy()))

	var fg *image.NRGBA
	if e.opts.skipTransparent && HasTransparency(src) {
		e.opts.logger.Debug("upload already transparent, skipping segmentation")
		fg = src
	} else {
		fg, err = e.segment(ctx, src)
		if err != nil {
			return nil, err
		}
	}

	if e.opts.trim {
		fg, err = Trim(fg, e.opts.trimThreshold, e.opts.trimSquare)
		if err != nil {
			return nil, err
		}
	}
	return fg, nil
}

func (e *Extractor) segment(ctx context.Context, src *image.NRGBA) (*image.NRGBA, error) {
	out, err := e.seg.Segment(ctx, src)
	if err != nil {
		return nil, newError(KindSegmentation, "segment image", err)
	}
	if out == nil {
		return nil, newError(KindSegmentation, "segment image", errors.New("segmenter returned no image"))
	}

	fg := ToRGBA(out)
	e.opts.logger.Debug("segmented",
		zap.Bool("transparent", HasTransparency(fg)),
		zap.Int("width", fg.Bounds().Dx()),
		zap.Int("height", fg.Bounds().Dy()))
	return fg, nil
}

// ExtractPayload runs Extract and encodes the foreground as PNG so the alpha
// mask survives transport.
func (e *Extractor) ExtractPayload(ctx context.Context, raw []byte) (*Payload, error) {
	fg, err := e.Extract(ctx, raw)
	if err != nil {
		return nil, err
	}
	return Encode(fg, FormatPNG, e.opts.jpegQuality)
}
