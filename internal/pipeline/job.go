package pipeline

import (
	"fmt"
	"strings"

	"github.com/handiism/bootleg-splitter/internal/tracklist"
)

// Job is everything a run needs from the user.
type Job struct {
	URL       string
	Template  string
	Tracklist string
	Artist    string
	// Album defaults to the video title when empty.
	Album string
	// OutputDir may contain {artist}, {album}, {year}, {month} and {day}.
	OutputDir string
}

// Validate resolves the tracklist without a known duration and reports the
// first reason the job cannot start.
func (j Job) Validate() (tracklist.Result, error) {
	res := tracklist.Resolve(j.Template, j.Tracklist, 0)

	switch {
	case strings.TrimSpace(j.URL) == "":
		return res, &ValidationError{Field: "url", Msg: "a video URL is required"}
	case res.TemplateErr != nil:
		return res, &ValidationError{Field: "template", Msg: "template does not compile", Err: res.TemplateErr}
	case len(res.Tracks) == 0:
		return res, &ValidationError{Field: "tracklist", Msg: "tracklist is empty"}
	case res.InvalidCount() > 0:
		return res, &ValidationError{
			Field: "tracklist",
			Msg:   countNoun(res.InvalidCount(), "invalid line"),
			Err:   firstTrackError(res),
		}
	case strings.TrimSpace(j.OutputDir) == "":
		return res, &ValidationError{Field: "output_dir", Msg: "an output directory is required"}
	}
	return res, nil
}

func firstTrackError(res tracklist.Result) error {
	for _, t := range res.Tracks {
		if t.Err != nil {
			return t.Err
		}
	}
	return nil
}

// countNoun formats n with noun, pluralised with a trailing "s".
func countNoun(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
