package compose

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"
)

// Compositor places an alpha-segmented foreground over a background and
// encodes the flattened result. It holds no per-call state and is safe for
// concurrent use.
type Compositor struct {
	opts options
}

func NewCompositor(opts ...Option) *Compositor {
	return &Compositor{opts: newOptions(opts)}
}

// CompositeBytes decodes fg and composites it as Composite does.
func (c *Compositor) CompositeBytes(ctx context.Context, fg []byte, bg BackgroundSpec, f Format) (*Payload, error) {
	img, _, err := Decode(fg)
	if err != nil {
		return nil, err
	}
	return c.Composite(ctx, img, bg, f)
}

// Composite renders fg over bg and encodes the result as f.
func (c *Compositor) Composite(ctx context.Context, fg image.Image, bg BackgroundSpec, f Format) (*Payload, error) {
	out, err := c.Render(ctx, fg, bg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := Encode(out, f, c.opts.jpegQuality)
	if err != nil {
		return nil, err
	}
	c.opts.logger.Debug("composited",
		zap.String("background", string(bg.Kind)),
		zap.String("format", string(p.Format)),
		zap.Int("width", out.Bounds().Dx()),
		zap.Int("height", out.Bounds().Dy()),
		zap.Int("bytes", len(p.Data)))
	return p, nil
}

// Render produces the flattened, fully opaque composite of fg over bg. The
// output always has fg's dimensions; an image background of another size is
// resampled to match.
func (c *Compositor) Render(ctx context.Context, fg image.Image, bg BackgroundSpec) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	front := ToRGBA(fg)
	w, h := front.Bounds().Dx(), front.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, newError(KindComposition, "foreground has no pixels", nil)
	}

	var back *image.NRGBA
	switch bg.Kind {
	case BackgroundColor:
		back = Fill(w, h, bg.Color)
	case BackgroundImage:
		img, name, err := Decode(bg.Image)
		if err != nil {
			return nil, err
		}
		c.opts.logger.Debug("resizing background",
			zap.String("container", name),
			zap.Stringer("from", img.Bounds().Size()),
			zap.Stringer("to", image.Pt(w, h)))
		back = ToRGBA(resizeTo(img, w, h))
	default:
		return nil, newError(KindInvalidBackground, fmt.Sprintf("invalid background type %q", bg.Kind), nil)
	}

	return Blend(front, back)
}

// Blend applies the "over" operator with fg's alpha as the mask:
//
//	out = a*fg + (1-a)*bg, out alpha = 1
//
// fg and bg must have the same size.
func Blend(fg, bg *image.NRGBA) (*image.NRGBA, error) {
	size := fg.Bounds().Size()
	if size != bg.Bounds().Size() {
		return nil, newError(KindComposition,
			fmt.Sprintf("foreground %v and background %v differ in size", size, bg.Bounds().Size()), nil)
	}

	out := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	n := size.X * 4
	for y := 0; y < size.Y; y++ {
		fr := fg.Pix[y*fg.Stride : y*fg.Stride+n]
		br := bg.Pix[y*bg.Stride : y*bg.Stride+n]
		or := out.Pix[y*out.Stride : y*out.Stride+n]
		for i := 0; i < n; i += 4 {
			a := uint32(fr[i+3])
			na := 0xff - a
			or[i] = uint8((uint32(fr[i])*a + uint32(br[i])*na + 0x7f) / 0xff)
			or[i+1] = uint8((uint32(fr[i+1])*a + uint32(br[i+1])*na + 0x7f) / 0xff)
			or[i+2] = uint8((uint32(fr[i+2])*a + uint32(br[i+2])*na + 0x7f) / 0xff)
			or[i+3] = 0xff
		}
	}
	return out, nil
}
