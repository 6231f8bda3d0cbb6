package model

import (
	"fmt"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/bootleg-splitter/internal/io"
)

// Segment is a cut range inside the source recording, in whole seconds.
// When HasEnd is false the segment runs to the end of the media.
type Segment struct {
	Start  int
	End    int
	HasEnd bool
}

// Length returns the segment length in seconds, or 0 when the end is open.
func (s Segment) Length() int {
	if !s.HasEnd {
		return 0
	}
	return s.End - s.Start
}

// Track represents a single output track cut from the recording.
//
// The file path is computed when creating a track via NewTrack, using the
// album's path and the TrackConfig file name format.
//
// Example:
//
//	cfg := &TrackConfig{FileNameFormat: "{tracknum} - {title}.mp3"}
//	track := NewTrack(album, 1, "Intro", Segment{Start: 0, End: 135, HasEnd: true}, cfg)
//	// track.Path = "/music/Artist/Album/01 - Intro.mp3"
type Track struct {
	// Album is a reference to the parent album.
	Album *Album

	// Number is the track number (1-indexed).
	Number int

	// Title is the track title from the tracklist.
	Title string

	// Segment is the cut range inside the source recording.
	Segment Segment

	// Path is the computed output file path including extension.
	Path string
}

// TrackConfig holds track path formatting settings.
//
// The FileNameFormat supports placeholders:
//   - {tracknum} - Track number (2 digits, zero-padded)
//   - {title} - Track title
//   - {artist} - Artist name (from album)
//   - {album} - Album title
//   - {year}, {month}, {day} - Release date components
type TrackConfig struct {
	// FileNameFormat is the template for track filenames.
	// Must include the file extension (typically ".mp3").
	FileNameFormat string
}

// NewTrack creates a new Track with computed path.
func NewTrack(album *Album, number int, title string, seg Segment, cfg *TrackConfig) *Track {
	track := &Track{
		Album:   album,
		Number:  number,
		Title:   title,
		Segment: seg,
	}

	track.Path = track.parseFilePath(cfg)

	return track
}

// Duration returns the track length in seconds, or 0 when it runs to the
// end of an unknown-length recording.
func (t *Track) Duration() float64 {
	return float64(t.Segment.Length())
}

// Tags builds the tag set written to this track's output file.
func (t *Track) Tags(artwork []byte) Tags {
	return Tags{
		Artist:      t.Album.Artist,
		Album:       t.Album.Title,
		Title:       t.Title,
		TrackNumber: t.Number,
		TotalTracks: len(t.Album.Tracks),
		Year:        t.Album.Year(),
		Artwork:     artwork,
	}
}

// parseFilePath computes the full file path for this track.
func (t *Track) parseFilePath(cfg *TrackConfig) string {
	fileName := t.parseFileName(cfg)
	ext := filepath.Ext(fileName)
	return limitFilePath(t.Album.Path, strings.TrimSuffix(fileName, ext), ext)
}

// parseFileName computes the filename from the config template.
func (t *Track) parseFileName(cfg *TrackConfig) string {
	format := cfg.FileNameFormat
	if format == "" {
		format = "{tracknum} - {title}.mp3"
	}
	fileName := t.Album.replacePlaceholders(format, false)
	fileName = strings.ReplaceAll(fileName, "{title}", t.Title)
	fileName = strings.ReplaceAll(fileName, "{tracknum}", fmt.Sprintf("%02d", t.Number))
	fileName = ioutils.SanitizeFileName(fileName)
	if strings.TrimSuffix(fileName, filepath.Ext(fileName)) == "" {
		fileName = fmt.Sprintf("%02d untitled%s", t.Number, filepath.Ext(fileName))
	}
	return fileName
}

// Tags is the metadata written to one output file.
type Tags struct {
	Artist      string
	Album       string
	Title       string
	TrackNumber int
	TotalTracks int
	Year        string

	// Artwork is JPEG cover art; nil skips the picture frame.
	Artwork []byte
}
