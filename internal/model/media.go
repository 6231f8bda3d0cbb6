package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// MediaMetadata describes the source recording as reported by the fetcher.
// It is fetched once per run and treated as read-only afterwards.
type MediaMetadata struct {
	ID              string
	Title           string
	Channel         string
	DurationSeconds int
	ThumbnailURL    string
	ViewCount       int64
	HasViewCount    bool
	PublishDate     time.Time
	WebpageURL      string
}

// DurationString formats the duration as H:MM:SS or M:SS, or "Live" when
// the duration is unknown.
func (m MediaMetadata) DurationString() string {
	if m.DurationSeconds <= 0 {
		return "Live"
	}
	h := m.DurationSeconds / 3600
	mm := (m.DurationSeconds % 3600) / 60
	s := m.DurationSeconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mm, s)
	}
	return fmt.Sprintf("%d:%02d", mm, s)
}

// FormattedViews returns e.g. "1,234,567 views".
func (m MediaMetadata) FormattedViews() string {
	if !m.HasViewCount {
		return "Unknown views"
	}
	if m.ViewCount == 1 {
		return "1 view"
	}
	return humanize.Comma(m.ViewCount) + " views"
}

// FormattedDate returns the publish date as YYYY-MM-DD, or "" when unknown.
func (m MediaMetadata) FormattedDate() string {
	if m.PublishDate.IsZero() {
		return ""
	}
	return m.PublishDate.Format("2006-01-02")
}

var youTubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.|m\.|music\.)?(youtube\.com/watch\?v=|youtu\.be/|youtube\.com/live/)[\w\-]+`)

// IsYouTubeURL reports whether rawURL looks like a YouTube video link.
func IsYouTubeURL(rawURL string) bool {
	return youTubeURLPattern.MatchString(strings.TrimSpace(rawURL))
}
