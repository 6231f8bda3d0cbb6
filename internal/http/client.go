package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
)

// MaxCoverSize bounds how many bytes FetchCover reads.
const MaxCoverSize = 10 << 20

// ErrTooLarge is returned when a response body exceeds the read limit.
var ErrTooLarge = errors.New("response body too large")

// Client wraps HTTP operations used to fetch thumbnails.
//
// Example usage:
//
//	client := NewClient()
//
//	// Fetch the video thumbnail for cover art
//	data, err := client.FetchCover(ctx, meta.ThumbnailURL)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 30 second timeout
//   - "bootleg-splitter" User-Agent header
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "bootleg-splitter",
	}
}

// Get performs a GET request and returns at most limit bytes of the body.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK
//   - The body is larger than limit
//
// Example:
//
//	data, err := client.Get(ctx, "https://i.ytimg.com/vi/abc/hqdefault.jpg", 1<<20)
func (c *Client) Get(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %s", ErrTooLarge, humanize.IBytes(uint64(limit)))
	}
	return data, nil
}

// FetchCover downloads a thumbnail image into memory. It satisfies the
// pipeline's cover art fetcher.
func (c *Client) FetchCover(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("no thumbnail url")
	}
	return c.Get(ctx, url, MaxCoverSize)
}
