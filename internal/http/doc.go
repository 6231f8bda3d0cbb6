// Package http provides the HTTP client used to fetch video thumbnails.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Bounded in-memory reads
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Fetch a thumbnail to embed as cover art
//	data, err := client.FetchCover(ctx, "https://i.ytimg.com/vi/abc/maxresdefault.jpg")
package http
