package util

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	httputil "github.com/chaos-io/cutout/util/http"
)

// ReadImageBytes loads raw image bytes from a local path or an http(s) URL.
func ReadImageBytes(ctx context.Context, cli httputil.IClient, src string) ([]byte, error) {
	if IsURL(src) {
		return DownloadImage(ctx, cli, src)
	}
	return OpenImage(src)
}

func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// DownloadImage 下载图片
func DownloadImage(ctx context.Context, cli httputil.IClient, url string) ([]byte, error) {
	if cli == nil {
		cli = httputil.NewHTTPClient()
	}
	var data []byte
	err := cli.DoHTTPRequest(ctx, &httputil.RequestParam{
		RequestURI: url,
		Method:     http.MethodGet,
		Response:   &data,
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	return data, nil
}

// OpenImage 打开本地图片
func OpenImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes data to path, creating it with 0644.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
