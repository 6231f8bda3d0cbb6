package dto

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/handiism/bootleg-splitter/internal/model"
)

const (
	unknownTitle   = "Unknown Title"
	unknownChannel = "Unknown Channel"
)

// UploadDate handles yt-dlp's upload_date format: "20230115".
type UploadDate struct {
	time.Time
}

// UnmarshalJSON parses YYYYMMDD. Empty or null values leave the zero time.
func (d *UploadDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse("20060102", s)
	if err != nil {
		return fmt.Errorf("unable to parse upload date: %s", s)
	}
	d.Time = t
	return nil
}

// JSONVideo is the subset of `yt-dlp --dump-single-json` output we use.
type JSONVideo struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Channel    string          `json:"channel"`
	Uploader   string          `json:"uploader"`
	Duration   *float64        `json:"duration"`
	IsLive     bool            `json:"is_live"`
	ViewCount  *int64          `json:"view_count"`
	UploadDate *UploadDate     `json:"upload_date"`
	Thumbnail  string          `json:"thumbnail"`
	Thumbnails []JSONThumbnail `json:"thumbnails"`
	WebpageURL string          `json:"webpage_url"`
}

// JSONThumbnail is one entry of the thumbnails list.
type JSONThumbnail struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Preference *int   `json:"preference"`
	Width      *int   `json:"width"`
	Height     *int   `json:"height"`
}

// ToMetadata converts JSONVideo to a model.MediaMetadata.
func (jv *JSONVideo) ToMetadata() model.MediaMetadata {
	meta := model.MediaMetadata{
		ID:           jv.ID,
		Title:        strings.TrimSpace(jv.Title),
		Channel:      strings.TrimSpace(jv.Channel),
		ThumbnailURL: BestThumbnail(jv.Thumbnails),
		WebpageURL:   jv.WebpageURL,
	}

	if meta.Title == "" {
		meta.Title = unknownTitle
	}
	if meta.Channel == "" {
		meta.Channel = strings.TrimSpace(jv.Uploader)
	}
	if meta.Channel == "" {
		meta.Channel = unknownChannel
	}

	// Live streams report a running duration that is not a usable end boundary.
	if jv.Duration != nil && !jv.IsLive && *jv.Duration > 0 {
		meta.DurationSeconds = int(math.Round(*jv.Duration))
	}

	if meta.ThumbnailURL == "" {
		meta.ThumbnailURL = jv.Thumbnail
	}

	if jv.ViewCount != nil {
		meta.ViewCount = *jv.ViewCount
		meta.HasViewCount = true
	}

	if jv.UploadDate != nil {
		meta.PublishDate = jv.UploadDate.Time
	}

	return meta
}
