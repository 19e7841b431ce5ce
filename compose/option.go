package compose

import "go.uber.org/zap"

// DefaultJPEGQuality is the quality used for JPEG output unless overridden.
const DefaultJPEGQuality = 95

type options struct {
	logger          *zap.Logger
	jpegQuality     int
	maxSide         int
	skipTransparent bool
	trim            bool
	trimSquare      bool
	trimThreshold   uint8
}

// Option configures an Extractor or a Compositor.
type Option func(*options)

// WithLogger sets the logger used for stage-level debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithJPEGQuality overrides DefaultJPEGQuality. Values outside 1..100 are ignored.
func WithJPEGQuality(q int) Option {
	return func(o *options) {
		if q >= 1 && q <= 100 {
			o.jpegQuality = q
		}
	}
}

// WithMaxSide downscales uploads whose longest side exceeds n before they
// reach the Segmenter. The foreground then has the downscaled size.
func WithMaxSide(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSide = n
		}
	}
}

// WithSkipTransparent makes the Extractor return uploads that already carry
// transparency without calling the Segmenter.
func WithSkipTransparent() Option {
	return func(o *options) {
		o.skipTransparent = true
	}
}

// WithTrim crops the extracted foreground to the pixels with alpha above
// threshold, optionally widened to a centered square.
func WithTrim(threshold uint8, square bool) Option {
	return func(o *options) {
		o.trim = true
		o.trimThreshold = threshold
		o.trimSquare = square
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), jpegQuality: DefaultJPEGQuality}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
