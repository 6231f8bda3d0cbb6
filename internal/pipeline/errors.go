package pipeline

import (
	"errors"
	"fmt"
)

// ErrRunActive is returned by Start while another run has not finished.
var ErrRunActive = errors.New("a run is already active")

// ErrNothingSplit fails a run in which no track could be cut.
var ErrNothingSplit = errors.New("no track could be split")

// ValidationError rejects a job before it starts, or fails a run whose
// tracklist no longer fits the fetched media.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FetchError wraps a metadata fetch failure.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch metadata for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DownloadError wraps a media download failure.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// SplitError reports a track that could not be cut. It does not fail the
// run on its own.
type SplitError struct {
	Track int
	Name  string
	Err   error
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("split track %d (%s): %v", e.Track, e.Name, e.Err)
}

func (e *SplitError) Unwrap() error { return e.Err }

// TagError reports a cut track whose tags could not be written.
type TagError struct {
	Track int
	Path  string
	Err   error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("tag track %d (%s): %v", e.Track, e.Path, e.Err)
}

func (e *TagError) Unwrap() error { return e.Err }
