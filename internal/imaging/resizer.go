// Package imaging shrinks uploaded images by calling an external resize
// service, keeping the heavy pixel work out of this process.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Widths used by the upload handlers.
const (
	AvatarWidth       = 250
	ProductImageWidth = 350
)

// MaxUploadBytes caps what the upload handlers accept before resizing.
const MaxUploadBytes = 5 << 20

type Resizer struct {
	baseURL    string
	httpClient *http.Client
}

func NewResizer(baseURL string, timeout time.Duration) *Resizer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Resizer{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Resize posts the raw image bytes and returns the JPEG scaled to the
// requested width with aspect ratio preserved.
func (r *Resizer) Resize(ctx context.Context, image []byte, width int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/resize", bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("imaging: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	q := req.URL.Query()
	q.Set("width", strconv.Itoa(width))
	q.Set("format", "jpeg")
	req.URL.RawQuery = q.Encode()

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imaging: resize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("imaging: service returned status %d: %s", resp.StatusCode, detail)
	}

	resized, err := io.ReadAll(io.LimitReader(resp.Body, MaxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("imaging: read response: %w", err)
	}
	return resized, nil
}
