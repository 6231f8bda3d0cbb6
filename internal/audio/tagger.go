package audio

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/bogem/id3v2"

	"github.com/handiism/bootleg-splitter/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty removes the frame.
	TagEmpty TagEditAction = iota

	// TagModify writes the value from the tracklist and video metadata.
	// Empty values leave the frame untouched.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Artist:      TagModify,
//	    Album:       TagModify,
//	    TrackTitle:  TagModify,
//	    TrackNumber: TagModify,
//	    Comments:    TagEmpty,       // Drop the comment yt-dlp may leave behind
//	    AlbumArtist: TagDoNotModify,
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are modified.
	ModifyTags bool

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// AlbumArtist controls the TPE2 (Album artist) frame.
	AlbumArtist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// Year controls the recording year frame (TDRC in ID3v2.4, TYER in v2.3).
	Year TagEditAction

	// TrackNumber controls the TRCK frame, written as "n/total".
	TrackNumber TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
//
// Every frame is set to TagModify except comments, which are cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		Year:        TagModify,
		TrackNumber: TagModify,
		TrackTitle:  TagModify,
		Comments:    TagEmpty,
	}
}

// Tagger writes ID3 tags to MP3 files.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	// After the track was cut
//	err := tagger.Tag(track.Path, track.Tags(coverJPEG))
//	if err != nil {
//	    log.Printf("Failed to tag %s: %v", track.Path, err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// Tag writes tags to the MP3 file at path.
//
// Files without an ID3 header get a fresh ID3v2.4 tag. Artwork, when
// present, replaces any attached front cover.
func (t *Tagger) Tag(path string, tags model.Tags) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateTextFrames(tag, tags)
	}

	if len(tags.Artwork) > 0 {
		updateArtwork(tag, tags.Artwork)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (t *Tagger) updateTextFrames(tag *id3v2.Tag, tags model.Tags) {
	setText(tag, tag.CommonID("Lead artist/Lead performer/Soloist/Performing group"), t.config.Artist, tags.Artist)
	setText(tag, tag.CommonID("Band/Orchestra/Accompaniment"), t.config.AlbumArtist, tags.Artist)
	setText(tag, tag.CommonID("Album/Movie/Show title"), t.config.Album, tags.Album)
	setText(tag, tag.CommonID("Title/Songname/Content description"), t.config.TrackTitle, tags.Title)
	setText(tag, tag.CommonID("Year"), t.config.Year, tags.Year)
	setText(tag, tag.CommonID("Track number/Position in set"), t.config.TrackNumber, trackNumber(tags))

	if t.config.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}
}

func setText(tag *id3v2.Tag, id string, action TagEditAction, value string) {
	switch action {
	case TagEmpty:
		tag.DeleteFrames(id)
	case TagModify:
		if value != "" {
			tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
		}
	}
}

func trackNumber(tags model.Tags) string {
	if tags.TrackNumber <= 0 {
		return ""
	}
	if tags.TotalTracks > 0 {
		return fmt.Sprintf("%d/%d", tags.TrackNumber, tags.TotalTracks)
	}
	return strconv.Itoa(tags.TrackNumber)
}

// updateArtwork embeds cover art as an attached picture frame.
func updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
