package rembg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"time"

	"github.com/chaos-io/cutout/compose"
	"go.uber.org/zap"
)

const (
	BackendHTTP     = "http"
	BackendBiRefNet = "birefnet"
	BackendNone     = "none"
)

type Config struct {
	Backend      string
	URL          string
	Timeout      time.Duration
	PollInterval time.Duration
}

// New returns the segmenter selected by cfg.Backend.
func New(cfg Config, logger *zap.Logger) (compose.Segmenter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend {
	case BackendHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("rembg: backend %q needs a url", cfg.Backend)
		}
		r := NewHTTPRemover(cfg.URL, cfg.Timeout)
		r.logger = logger
		return r, nil
	case BackendBiRefNet:
		if cfg.URL == "" {
			return nil, fmt.Errorf("rembg: backend %q needs a url", cfg.Backend)
		}
		b := NewBiRefNetRemBG(cfg.URL, cfg.Timeout)
		if cfg.PollInterval > 0 {
			b.pollInterval = cfg.PollInterval
		}
		b.logger = logger
		return b, nil
	case BackendNone, "":
		return NewPassthrough(), nil
	default:
		return nil, fmt.Errorf("rembg: unknown backend %q", cfg.Backend)
	}
}

// Passthrough returns its input unchanged. Useful when uploads already carry
// a cut-out alpha channel, and in development without a model server.
type Passthrough struct{}

func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

func (p *Passthrough) Segment(ctx context.Context, img *image.NRGBA) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// multipartImage writes img as a PNG form file named field, followed by the
// given plain fields.
func multipartImage(field, filename string, img image.Image, fields map[string]string) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if err := png.Encode(part, img); err != nil {
		return nil, "", fmt.Errorf("encode png: %w", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

func decodeResult(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty result image")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode result image: %w", err)
	}
	return img, nil
}
