package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/bootleg-splitter/internal/config"
	"github.com/handiism/bootleg-splitter/internal/model"
	"github.com/handiism/bootleg-splitter/internal/pipeline"
)

type stubFetcher struct {
	meta model.MediaMetadata
	err  error
}

func (f stubFetcher) Fetch(ctx context.Context, url string) (model.MediaMetadata, error) {
	return f.meta, f.err
}

type stubDownloader struct{}

func (stubDownloader) Download(ctx context.Context, url, dir string, onProgress func(float64)) (string, error) {
	path := filepath.Join(dir, "source.m4a")
	return path, os.WriteFile(path, []byte("audio"), 0o644)
}

type stubSplitter struct{}

func (stubSplitter) Split(ctx context.Context, source string, seg model.Segment, out string) error {
	return os.WriteFile(out, []byte("mp3"), 0o644)
}

type stubTagger struct{}

func (stubTagger) Tag(path string, tags model.Tags) error { return nil }

func newSession(t *testing.T) *Session {
	t.Helper()
	fetcher := stubFetcher{meta: model.MediaMetadata{Title: "Live Set", DurationSeconds: 600}}
	settings := config.DefaultSettings()
	settings.DownloadsPath = t.TempDir()

	orch := pipeline.New(pipeline.Deps{
		Fetcher:    fetcher,
		Downloader: stubDownloader{},
		Splitter:   stubSplitter{},
		Tagger:     stubTagger{},
	}, pipeline.WithSettings(settings), pipeline.WithTempDir(t.TempDir()))

	return New(orch, fetcher, settings)
}

func TestSession_EditsRecomputePreview(t *testing.T) {
	s := newSession(t)

	if p := s.Preview(); p.Status != "" || len(p.Rows) != 0 {
		t.Fatalf("initial preview = %+v", p)
	}

	p := s.SetTracklistText("Intro - 0:00\nSong - 2:15")
	if p.Status != "2 tracks ready" || !p.Valid {
		t.Errorf("Status = %q, Valid = %v", p.Status, p.Valid)
	}

	p = s.SetTracklistText("Intro - 0:00\nSong - 2:15\nBroken")
	if p.Status != "1 error" || p.Valid {
		t.Errorf("Status = %q, Valid = %v", p.Status, p.Valid)
	}
	if s.Preview().Status != "1 error" {
		t.Error("Preview should return the last computed preview")
	}
}

func TestSession_TemplateError(t *testing.T) {
	s := newSession(t)
	s.SetTracklistText("Intro - 0:00")

	s.SetTemplate("%mm%:%ss%")
	if s.TemplateError() == "" {
		t.Fatal("expected a template error")
	}
	if p := s.Preview(); p.Valid || len(p.Rows) != 0 {
		t.Errorf("template error should block the preview: %+v", p)
	}

	s.SetTemplate("%songname% - %mm%:%ss%")
	if s.TemplateError() != "" {
		t.Errorf("TemplateError = %q after fixing the template", s.TemplateError())
	}
}

func TestSession_URLWarning(t *testing.T) {
	s := newSession(t)
	if s.URLWarning() != "" {
		t.Error("no warning without a URL")
	}
	s.SetURL("https://vimeo.com/12345")
	if s.URLWarning() != URLWarning {
		t.Errorf("URLWarning = %q", s.URLWarning())
	}
	s.SetURL("https://youtu.be/dQw4w9WgXcQ")
	if s.URLWarning() != "" {
		t.Errorf("URLWarning = %q for a YouTube URL", s.URLWarning())
	}
}

func TestSession_LoadInfoFillsLastTrack(t *testing.T) {
	s := newSession(t)
	s.SetTracklistText("Intro - 0:00\nEncore - 9:00")

	if _, err := s.LoadInfo(context.Background()); !errors.Is(err, ErrNoURL) {
		t.Fatalf("LoadInfo without URL err = %v", err)
	}

	s.SetURL("https://youtu.be/dQw4w9WgXcQ")
	if _, err := s.LoadInfo(context.Background()); err != nil {
		t.Fatalf("LoadInfo: %v", err)
	}
	rows := s.Preview().Rows
	if len(rows) != 2 || rows[1].Length != "0:01:00" {
		t.Errorf("rows = %+v", rows)
	}

	s.SetURL("https://youtu.be/another")
	if s.Metadata() != nil {
		t.Error("changing the URL should drop stale metadata")
	}
	if rows := s.Preview().Rows; rows[1].Length != "" {
		t.Errorf("last track length should be pending again, got %q", rows[1].Length)
	}
}

func TestSession_StartRejectsEmptyTracklist(t *testing.T) {
	s := newSession(t)
	s.SetURL("https://youtu.be/dQw4w9WgXcQ")

	err := s.StartPipeline()
	var verr *pipeline.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *pipeline.ValidationError", err)
	}
	if s.State().State != pipeline.Idle {
		t.Errorf("state = %s", s.State().State)
	}
	if s.CancelPipeline() {
		t.Error("CancelPipeline should return false with no run")
	}
}

func TestSession_StartPipeline(t *testing.T) {
	s := newSession(t)
	s.SetURL("https://youtu.be/dQw4w9WgXcQ")
	s.SetArtist("  The Band ")
	s.SetTracklistText("Intro - 0:00\nSong - 2:15")

	if job := s.Job(); job.Artist != "The Band" || job.OutputDir == "" {
		t.Errorf("job = %+v", job)
	}

	if err := s.StartPipeline(); err != nil {
		t.Fatalf("StartPipeline: %v", err)
	}
	s.Wait()

	snap := s.State()
	if snap.State != pipeline.Complete || snap.Succeeded != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if !s.Acknowledge() || s.State().State != pipeline.Idle {
		t.Error("Acknowledge should return the run to idle")
	}
}

func TestSession_JobFieldsAreTrimmed(t *testing.T) {
	s := newSession(t)
	s.SetArtist(" The Band ")
	s.SetAlbum("\tLive at the Roxy ")
	s.SetOutputDir(" /music/{artist}/{album} ")

	job := s.Job()
	if job.Artist != "The Band" || job.Album != "Live at the Roxy" || job.OutputDir != "/music/{artist}/{album}" {
		t.Errorf("job = %+v", job)
	}
}
