package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/handiism/bootleg-splitter/internal/model"
	"github.com/handiism/bootleg-splitter/internal/ytdlp/dto"
)

const (
	// DefaultBinary is resolved from PATH.
	DefaultBinary       = "yt-dlp"
	DefaultFormat       = "bestaudio/best"
	DefaultAudioFormat  = "mp3"
	DefaultAudioQuality = "192K"

	outputTemplate = "%(id)s.%(ext)s"
)

// ErrUnavailable is returned when the video is private, removed or otherwise
// not available.
var ErrUnavailable = errors.New("video unavailable")

// Client runs the yt-dlp binary to fetch metadata and download audio.
//
// Example usage:
//
//	client := NewClient("", logger)
//
//	meta, err := client.Fetch(ctx, "https://www.youtube.com/watch?v=abc")
//	fmt.Printf("%s (%s)\n", meta.Title, meta.DurationString())
//
//	path, err := client.Download(ctx, url, tmpDir, func(fraction float64) {
//	    fmt.Printf("%.0f%%\n", fraction*100)
//	})
type Client struct {
	Binary       string
	Format       string
	AudioFormat  string
	AudioQuality string

	logger *slog.Logger
}

// NewClient creates a Client. An empty binary means DefaultBinary and a nil
// logger discards output.
func NewClient(binary string, logger *slog.Logger) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		Binary:       binary,
		Format:       DefaultFormat,
		AudioFormat:  DefaultAudioFormat,
		AudioQuality: DefaultAudioQuality,
		logger:       logger,
	}
}

// Fetch reads video metadata without downloading anything.
func (c *Client) Fetch(ctx context.Context, url string) (model.MediaMetadata, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return model.MediaMetadata{}, errors.New("yt-dlp fetch: empty url")
	}

	args := []string{"--dump-single-json", "--no-playlist", "--no-warnings", "--skip-download", "--", url}
	c.logger.Debug("running yt-dlp", "binary", c.Binary, "args", args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.MediaMetadata{}, ctxErr
		}
		return model.MediaMetadata{}, commandError("yt-dlp fetch", err, stderr.String())
	}

	var video dto.JSONVideo
	if err := json.Unmarshal(output, &video); err != nil {
		return model.MediaMetadata{}, fmt.Errorf("yt-dlp parse: %w", err)
	}

	meta := video.ToMetadata()
	if meta.WebpageURL == "" {
		meta.WebpageURL = url
	}
	return meta, nil
}

// Download extracts the audio of url into dir and returns the final file
// path. onProgress, when non-nil, receives the download fraction (0..1).
// Cancelling ctx kills the yt-dlp process.
func (c *Client) Download(ctx context.Context, url, dir string, onProgress func(float64)) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", errors.New("yt-dlp download: empty url")
	}

	args := c.downloadArgs(url, dir)
	c.logger.Debug("running yt-dlp", "binary", c.Binary, "args", args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}

	var (
		finalPath string
		lastTotal int64
	)
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if p, ok := parseProgress(line); ok {
			lastTotal = p.Total
			if onProgress != nil {
				onProgress(p.Fraction())
			}
			continue
		}
		finalPath = line
	}

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", commandError("yt-dlp download", err, stderr.String())
	}

	if finalPath == "" {
		finalPath, err = findAudioFile(dir, c.AudioFormat)
		if err != nil {
			return "", err
		}
	}
	if _, err := os.Stat(finalPath); err != nil {
		return "", fmt.Errorf("downloaded file not found: %w", err)
	}

	if lastTotal > 0 {
		c.logger.Debug("yt-dlp download finished", "path", finalPath, "size", humanize.Bytes(uint64(lastTotal)))
	}
	if onProgress != nil {
		onProgress(1)
	}
	return finalPath, nil
}

func (c *Client) downloadArgs(url, dir string) []string {
	return []string{
		"--no-playlist",
		"--no-warnings",
		"--newline",
		"--progress",
		"--progress-template", "download:" + progressPrefix + "%(progress.downloaded_bytes)s/%(progress.total_bytes,progress.total_bytes_estimate)s",
		"-f", c.Format,
		"--extract-audio",
		"--audio-format", c.AudioFormat,
		"--audio-quality", c.AudioQuality,
		"-o", filepath.Join(dir, outputTemplate),
		"--print", "after_move:filepath",
		"--", url,
	}
}

func findAudioFile(dir, ext string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*."+ext))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no .%s file produced in %s", ext, dir)
	}
	return matches[0], nil
}

func commandError(op string, err error, stderr string) error {
	detail := lastLine(stderr)
	lower := strings.ToLower(detail)
	switch {
	case strings.Contains(lower, "private"):
		return fmt.Errorf("%s: this video is private: %w", op, ErrUnavailable)
	case strings.Contains(lower, "removed"):
		return fmt.Errorf("%s: this video has been removed: %w", op, ErrUnavailable)
	case strings.Contains(lower, "unavailable"), strings.Contains(lower, "not available"):
		return fmt.Errorf("%s: this video is unavailable: %w", op, ErrUnavailable)
	}
	if detail == "" {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %s", op, err, detail)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
