package rembg

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"net/http"
	"strings"
	"time"

	nhttp "github.com/chaos-io/cutout/util/http"
	"go.uber.org/zap"
)

// HTTPRemover calls a rembg server (`rembg s`), which takes the image as the
// multipart field "file" on POST /api/remove and answers with a PNG whose
// alpha channel holds the mask.
type HTTPRemover struct {
	endpoint string
	cli      nhttp.IClient
	logger   *zap.Logger
}

func NewHTTPRemover(baseURL string, timeout time.Duration) *HTTPRemover {
	return &HTTPRemover{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/remove",
		cli:      nhttp.NewHTTPClientWithTimeout(timeout),
		logger:   zap.NewNop(),
	}
}

func (r *HTTPRemover) Segment(ctx context.Context, img *image.NRGBA) (image.Image, error) {
	body, contentType, err := multipartImage("file", "upload.png", img, nil)
	if err != nil {
		return nil, err
	}

	var out []byte
	reqParam := &nhttp.RequestParam{
		RequestURI: r.endpoint,
		Method:     http.MethodPost,
		Header:     map[string]string{"Content-Type": contentType},
		Body:       body,
		Response:   &out,
	}
	start := time.Now()
	if err := r.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("remove background: %w", err)
	}
	r.logger.Debug("rembg responded",
		zap.String("endpoint", r.endpoint),
		zap.Int("bytes", len(out)),
		zap.Duration("took", time.Since(start)))

	return decodeResult(out)
}
