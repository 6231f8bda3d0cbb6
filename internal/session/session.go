package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/handiism/bootleg-splitter/internal/config"
	"github.com/handiism/bootleg-splitter/internal/model"
	"github.com/handiism/bootleg-splitter/internal/pipeline"
	"github.com/handiism/bootleg-splitter/internal/tracklist"
)

// URLWarning is shown for URLs that are not recognised as YouTube videos.
// They are still accepted since yt-dlp supports many other sites.
const URLWarning = "not a YouTube URL, yt-dlp will try it anyway"

// ErrNoURL is returned by LoadInfo when no URL has been set.
var ErrNoURL = errors.New("no URL set")

// Session holds the form a user edits and the run it starts. Every edit
// recomputes the tracklist preview before returning. Methods are safe to
// call while a run is in progress.
type Session struct {
	orch    *pipeline.Orchestrator
	fetcher pipeline.MetadataFetcher

	mu        sync.RWMutex
	template  string
	text      string
	url       string
	artist    string
	album     string
	outputDir string
	meta      *model.MediaMetadata
	result    tracklist.Result
	preview   tracklist.Preview
}

// New creates a session. fetcher backs LoadInfo and may be nil. Template
// and output directory start from settings.
func New(orch *pipeline.Orchestrator, fetcher pipeline.MetadataFetcher, settings *config.Settings) *Session {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	s := &Session{
		orch:      orch,
		fetcher:   fetcher,
		template:  settings.Template,
		outputDir: settings.DownloadsPath,
	}
	s.recomputeLocked()
	return s
}

func (s *Session) duration() int {
	if s.meta == nil {
		return 0
	}
	return s.meta.DurationSeconds
}

func (s *Session) recomputeLocked() {
	s.result = tracklist.Resolve(s.template, s.text, s.duration())
	s.preview = tracklist.Project(s.result)
}

// SetTemplate replaces the tracklist template and returns the new preview.
func (s *Session) SetTemplate(text string) tracklist.Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = text
	s.recomputeLocked()
	return s.preview
}

// SetTracklistText replaces the tracklist and returns the new preview.
func (s *Session) SetTracklistText(text string) tracklist.Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.recomputeLocked()
	return s.preview
}

// SetURL sets the video URL. Metadata loaded for a different URL is
// dropped.
func (s *Session) SetURL(url string) {
	url = strings.TrimSpace(url)
	s.mu.Lock()
	defer s.mu.Unlock()
	if url == s.url {
		return
	}
	s.url = url
	if s.meta != nil {
		s.meta = nil
		s.recomputeLocked()
	}
}

// SetArtist sets the artist tag and folder name. Blank means unknown.
func (s *Session) SetArtist(artist string) {
	s.mu.Lock()
	s.artist = strings.TrimSpace(artist)
	s.mu.Unlock()
}

// SetAlbum sets the album tag and folder name. Blank falls back to the
// video title once metadata is fetched.
func (s *Session) SetAlbum(album string) {
	s.mu.Lock()
	s.album = strings.TrimSpace(album)
	s.mu.Unlock()
}

// SetOutputDir sets the output directory format. It may contain the
// {artist} and {album} placeholders.
func (s *Session) SetOutputDir(dir string) {
	s.mu.Lock()
	s.outputDir = strings.TrimSpace(dir)
	s.mu.Unlock()
}

// Preview returns the preview for the current template and tracklist.
func (s *Session) Preview() tracklist.Preview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview
}

// TemplateError returns the template compile error, or "".
func (s *Session) TemplateError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview.TemplateError
}

// URLWarning returns a warning for the current URL, or "".
func (s *Session) URLWarning() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.url == "" || model.IsYouTubeURL(s.url) {
		return ""
	}
	return URLWarning
}

// Metadata returns the metadata loaded by LoadInfo, or nil.
func (s *Session) Metadata() *model.MediaMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// Job returns the job StartPipeline would submit.
func (s *Session) Job() pipeline.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pipeline.Job{
		URL:       s.url,
		Template:  s.template,
		Tracklist: s.text,
		Artist:    s.artist,
		Album:     s.album,
		OutputDir: s.outputDir,
	}
}

// LoadInfo fetches metadata for the current URL so the preview can show
// the end of the last track. The result is discarded if the URL changed
// while fetching.
func (s *Session) LoadInfo(ctx context.Context) (model.MediaMetadata, error) {
	s.mu.RLock()
	url := s.url
	s.mu.RUnlock()

	if url == "" {
		return model.MediaMetadata{}, ErrNoURL
	}
	if s.fetcher == nil {
		return model.MediaMetadata{}, errors.New("no metadata fetcher configured")
	}

	meta, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return model.MediaMetadata{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.url == url {
		s.meta = &meta
		s.recomputeLocked()
	}
	return meta, nil
}

// StartPipeline submits the current form as a run. It is rejected with a
// *pipeline.ValidationError or pipeline.ErrRunActive without side effects.
func (s *Session) StartPipeline() error {
	_, err := s.orch.Start(context.Background(), s.Job())
	return err
}

// CancelPipeline cancels the active run. It reports whether one was
// running.
func (s *Session) CancelPipeline() bool {
	return s.orch.Cancel()
}

// Acknowledge returns a finished run to idle.
func (s *Session) Acknowledge() bool {
	return s.orch.Acknowledge()
}

// State returns the latest run snapshot.
func (s *Session) State() pipeline.Snapshot {
	return s.orch.Snapshot()
}

// Wait blocks until the current run has finished.
func (s *Session) Wait() {
	s.orch.Wait()
}
