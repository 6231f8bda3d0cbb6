package audio

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/bootleg-splitter/internal/model"
)

// PlaylistCreator generates playlist files for the tracks of a run.
//
// Track paths in the playlist are relative (just the filename), assuming
// the playlist sits in the album directory next to the tracks.
//
// Example:
//
//	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(album, written)
//	ioutils.WriteFile(ctx, album.PlaylistPath, []byte(content))
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:135,Artist - Intro
//	// 01 - Intro.mp3
type PlaylistCreator struct {
	format   model.PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator. extended only affects
// the M3U format.
func NewPlaylistCreator(format model.PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist renders tracks, which may be a subset of album.Tracks when
// some cuts failed.
func (p *PlaylistCreator) CreatePlaylist(album *model.Album, tracks []*model.Track) string {
	switch p.format {
	case model.PlaylistFormatPLS:
		return p.createPLS(tracks)
	case model.PlaylistFormatWPL:
		return p.createWPL(album, tracks)
	case model.PlaylistFormatZPL:
		return p.createZPL(album, tracks)
	default:
		return p.createM3U(album, tracks)
	}
}

// playlistLength is the length in seconds, or -1 for a track running to
// the end of an unknown-length recording, which is what M3U and PLS use
// for "unknown".
func playlistLength(track *model.Track) int {
	if !track.Segment.HasEnd {
		return -1
	}
	return int(track.Duration())
}

func (p *PlaylistCreator) createM3U(album *model.Album, tracks []*model.Track) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, track := range tracks {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s - %s\n", playlistLength(track), album.Artist, track.Title)
		}
		sb.WriteString(filepath.Base(track.Path) + "\n")
	}

	return sb.String()
}

func (p *PlaylistCreator) createPLS(tracks []*model.Track) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, track := range tracks {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, filepath.Base(track.Path))
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, track.Title)
		fmt.Fprintf(&sb, "Length%d=%d\n", idx, playlistLength(track))
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(tracks))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func (p *PlaylistCreator) createWPL(album *model.Album, tracks []*model.Track) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(album.Title))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, track := range tracks {
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(filepath.Base(track.Path)))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

func (p *PlaylistCreator) createZPL(album *model.Album, tracks []*model.Track) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(album.Title))
	sb.WriteString("    <meta name=\"Generator\" content=\"bootleg-splitter\"/>\n")
	fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(tracks))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, track := range tracks {
		fmt.Fprintf(&sb, "      <media src=\"%s\" albumTitle=\"%s\" albumArtist=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\" duration=\"%d\"/>\n",
			escapeXML(filepath.Base(track.Path)),
			escapeXML(album.Title),
			escapeXML(album.Artist),
			escapeXML(track.Title),
			escapeXML(album.Artist),
			int(track.Duration())*1000)
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

func escapeXML(s string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(s)); err != nil {
		return s
	}
	return sb.String()
}
