package model

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	ioutils "github.com/handiism/bootleg-splitter/internal/io"
)

// unknownArtist is used in folder paths when no artist was supplied.
const unknownArtist = "Unknown Artist"

// Album represents the release produced by a split run: one recording cut
// into several tracks that share artist, album title and cover art.
//
// Paths are computed when creating an album via NewAlbum, using
// placeholders like {artist}, {album} and {year}.
//
// Example:
//
//	cfg := &PathConfig{
//	    DownloadsPath:          "/music/{artist}/{album}",
//	    CoverArtFileNameFormat: "cover",
//	    PlaylistFormat:         PlaylistFormatM3U,
//	}
//	album := NewAlbum("Radiohead", "Live at Glastonbury 1997", thumbURL, uploadDate, cfg)
//	// album.Path = "/music/Radiohead/Live at Glastonbury 1997"
type Album struct {
	// Artist is the album artist name. May be empty.
	Artist string

	// Title is the album title, usually the recording's title.
	Title string

	// ArtworkURL is the URL of the cover art (the recording's thumbnail).
	// Empty string means no artwork is available.
	ArtworkURL string

	// ReleaseDate is the publish date of the recording.
	ReleaseDate time.Time

	// Tracks contains the tracks that will be cut from the recording.
	Tracks []*Track

	// Path is the local directory where track files are written.
	Path string

	// ArtworkPath is the local file path for the cover art saved next to
	// the tracks. Empty if the album has no artwork.
	ArtworkPath string

	// PlaylistPath is the local file path for the playlist file.
	PlaylistPath string
}

// NewAlbum creates a new Album with computed paths based on cfg.
//
// Supported placeholders: {artist}, {album}, {year}, {month}, {day}.
// Invalid filename characters are replaced with underscores.
func NewAlbum(artist, title, artworkURL string, releaseDate time.Time, cfg *PathConfig) *Album {
	album := &Album{
		Artist:      artist,
		Title:       title,
		ArtworkURL:  artworkURL,
		ReleaseDate: releaseDate,
	}

	album.Path = album.parseFolderPath(cfg)
	album.PlaylistPath = album.parsePlaylistPath(cfg)
	album.ArtworkPath = album.parseArtworkPath(cfg)

	return album
}

// HasArtwork returns true if the album has cover art available for download.
func (a *Album) HasArtwork() bool {
	return a.ArtworkURL != ""
}

// Year returns the four digit release year, or "" when the date is unknown.
func (a *Album) Year() string {
	if a.ReleaseDate.IsZero() {
		return ""
	}
	return a.ReleaseDate.Format("2006")
}

// PathConfig holds path formatting settings for albums.
//
// Example configuration:
//
//	cfg := &PathConfig{
//	    DownloadsPath:          "/home/user/Music/Bootlegs/{artist}/{album}",
//	    CoverArtFileNameFormat: "cover",
//	    PlaylistFileNameFormat: "{album}",
//	    PlaylistFormat:         PlaylistFormatM3U,
//	}
type PathConfig struct {
	// DownloadsPath is the output directory template.
	DownloadsPath string

	// CoverArtFileNameFormat is the filename template for cover art (without extension).
	CoverArtFileNameFormat string

	// PlaylistFileNameFormat is the filename template for playlists (without extension).
	PlaylistFileNameFormat string

	// PlaylistFormat determines the playlist file type and extension.
	PlaylistFormat PlaylistFormat
}

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// PlaylistFormatM3U creates .m3u playlist files (most widely supported).
	PlaylistFormatM3U PlaylistFormat = iota

	// PlaylistFormatPLS creates .pls playlist files (used by Winamp).
	PlaylistFormatPLS

	// PlaylistFormatWPL creates .wpl playlist files (Windows Media Player).
	PlaylistFormatWPL

	// PlaylistFormatZPL creates .zpl playlist files (Zune Media Player).
	PlaylistFormatZPL
)

// ParsePlaylistFormat maps a settings value (m3u, pls, wpl, zpl) to a
// PlaylistFormat. Unknown values fall back to M3U.
func ParsePlaylistFormat(value string) PlaylistFormat {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "pls":
		return PlaylistFormatPLS
	case "wpl":
		return PlaylistFormatWPL
	case "zpl":
		return PlaylistFormatZPL
	default:
		return PlaylistFormatM3U
	}
}

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case PlaylistFormatPLS:
		return ".pls"
	case PlaylistFormatWPL:
		return ".wpl"
	case PlaylistFormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

func (a *Album) replacePlaceholders(format string, sanitize bool) string {
	clean := func(s string) string { return s }
	if sanitize {
		clean = ioutils.SanitizeFileName
	}
	artist := a.Artist
	if strings.TrimSpace(artist) == "" {
		artist = unknownArtist
	}
	out := format
	out = strings.ReplaceAll(out, "{year}", clean(a.ReleaseDate.Format("2006")))
	out = strings.ReplaceAll(out, "{month}", clean(a.ReleaseDate.Format("01")))
	out = strings.ReplaceAll(out, "{day}", clean(a.ReleaseDate.Format("02")))
	out = strings.ReplaceAll(out, "{artist}", clean(artist))
	out = strings.ReplaceAll(out, "{album}", clean(a.Title))
	return out
}

// parseFolderPath computes the album folder path from the config template.
func (a *Album) parseFolderPath(cfg *PathConfig) string {
	p := filepath.Clean(a.replacePlaceholders(cfg.DownloadsPath, true))

	// Windows MAX_PATH for directories
	if len(p) >= 248 {
		p = p[:247]
	}

	return p
}

// parsePlaylistPath computes the full playlist file path.
func (a *Album) parsePlaylistPath(cfg *PathConfig) string {
	fileName := ioutils.SanitizeFileName(a.replacePlaceholders(cfg.PlaylistFileNameFormat, false))
	if fileName == "" {
		fileName = "playlist"
	}
	return limitFilePath(a.Path, fileName, cfg.PlaylistFormat.Extension())
}

// parseArtworkPath computes the full cover art file path. Artwork saved to
// the folder is always re-encoded as JPEG.
func (a *Album) parseArtworkPath(cfg *PathConfig) string {
	if !a.HasArtwork() {
		return ""
	}

	ext := artworkExtension(a.ArtworkURL)
	fileName := ioutils.SanitizeFileName(a.replacePlaceholders(cfg.CoverArtFileNameFormat, false))
	if fileName == "" {
		fileName = "cover"
	}
	return limitFilePath(a.Path, fileName, ext)
}

// artworkExtension returns the image extension of the URL path, ignoring
// query strings. Thumbnails without a recognised extension default to .jpg.
func artworkExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}
	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	default:
		return ".jpg"
	}
}

// limitFilePath joins dir, name and ext, shortening name when the total
// length exceeds the Windows MAX_PATH limit.
func limitFilePath(dir, name, ext string) string {
	filePath := filepath.Join(dir, name+ext)
	if len(filePath) >= 260 {
		maxLen := 259 - len(dir) - 1 - len(ext)
		if maxLen > 0 && maxLen < len(name) {
			filePath = filepath.Join(dir, name[:maxLen]+ext)
		}
	}
	return filePath
}
