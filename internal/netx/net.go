// Package netx fetches remote resources for the CLI.
package netx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrTooLarge = errors.New("response too large")

// Downloader fetches whole resources over HTTP.
type Downloader struct {
	http     *resty.Client
	maxBytes int64
}

func NewDownloader(timeout time.Duration, maxBytes int64) *Downloader {
	return &Downloader{
		http:     resty.New().SetTimeout(timeout).SetRetryCount(2),
		maxBytes: maxBytes,
	}
}

// Download GETs url and returns the body with its Content-Type.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, string, error) {
	resp, err := d.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("download %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return nil, "", fmt.Errorf("download failed: %s; body: %s", resp.Status(), truncate(resp.Body(), 200))
	}
	body := resp.Body()
	if d.maxBytes > 0 && int64(len(body)) > d.maxBytes {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(body))
	}
	return body, resp.Header().Get("Content-Type"), nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
