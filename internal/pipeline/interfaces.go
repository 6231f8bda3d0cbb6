package pipeline

import (
	"context"

	"github.com/handiism/bootleg-splitter/internal/model"
)

// MetadataFetcher looks up the source recording. Duration is in whole
// seconds; a missing thumbnail is not an error.
type MetadataFetcher interface {
	Fetch(ctx context.Context, url string) (model.MediaMetadata, error)
}

// MediaDownloader retrieves the audio of url into dir and returns the local
// file path. onProgress receives the completed fraction in [0, 1].
type MediaDownloader interface {
	Download(ctx context.Context, url, dir string, onProgress func(float64)) (string, error)
}

// SegmentSplitter cuts one segment of source into outputPath.
type SegmentSplitter interface {
	Split(ctx context.Context, source string, seg model.Segment, outputPath string) error
}

// Tagger writes metadata tags into a cut track.
type Tagger interface {
	Tag(path string, tags model.Tags) error
}

// CoverArtFetcher downloads the thumbnail used as cover art.
type CoverArtFetcher interface {
	FetchCover(ctx context.Context, url string) ([]byte, error)
}
