package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/bootleg-splitter/internal/audio"
	"github.com/handiism/bootleg-splitter/internal/config"
	ioutils "github.com/handiism/bootleg-splitter/internal/io"
	"github.com/handiism/bootleg-splitter/internal/logging"
	"github.com/handiism/bootleg-splitter/internal/model"
	"github.com/handiism/bootleg-splitter/internal/tracklist"
)

// lockFileName guards an output directory against two concurrent runs.
const lockFileName = ".bootleg.lock"

// Deps are the collaborators a run drives. CoverArt is optional.
type Deps struct {
	Fetcher    MetadataFetcher
	Downloader MediaDownloader
	Splitter   SegmentSplitter
	Tagger     Tagger
	CoverArt   CoverArtFetcher
}

// Snapshot is a read-only copy of the current run, safe to keep and read
// from any goroutine.
type Snapshot struct {
	RunID     string
	State     State
	Percent   float64
	Stage     string
	Log       []Event
	Metadata  *model.MediaMetadata
	Succeeded int
	Failed    int
	Outputs   []string
	Err       string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSettings sets file naming, cover art and playlist behaviour.
func WithSettings(s *config.Settings) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.settings = s
		}
	}
}

// WithLogger mirrors every run event to logger, tagged with run_id.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTempDir sets where working directories are created. Empty means
// os.TempDir().
func WithTempDir(dir string) Option {
	return func(o *Orchestrator) { o.tempDir = dir }
}

// WithProgress registers fn to receive published snapshots in order. Calls
// never overlap; a snapshot superseded before fn could see it is skipped.
// fn runs on the goroutine that changed the state and must not block for
// long.
func WithProgress(fn func(Snapshot)) Option {
	return func(o *Orchestrator) { o.onProgress = fn }
}

// Orchestrator runs one job at a time through fetch, download, split and
// tag. All methods are safe for concurrent use.
type Orchestrator struct {
	deps       Deps
	settings   *config.Settings
	logger     *slog.Logger
	tempDir    string
	onProgress func(Snapshot)
	images     *ioutils.ImageService

	mu     sync.Mutex
	cur    *run
	active bool
	cancel context.CancelFunc
	done   chan struct{}

	snap atomic.Pointer[Snapshot]

	// notifyMu serialises onProgress; notified is the last snapshot it saw.
	notifyMu sync.Mutex
	notified *Snapshot
}

// run is the mutable state of one run. Fields are guarded by
// Orchestrator.mu.
type run struct {
	id        string
	job       Job
	log       *Log
	state     State
	percent   float64
	stage     string
	meta      *model.MediaMetadata
	succeeded int
	failed    int
	outputs   []string
	err       string
}

func (r *run) setPercent(p float64) {
	if p > r.percent {
		r.percent = p
	}
}

// New creates an Orchestrator around deps.
func New(deps Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps:     deps,
		settings: config.DefaultSettings(),
		logger:   logging.NewNop(),
		images:   ioutils.NewImageService(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.snap.Store(&Snapshot{State: Idle})
	return o
}

// Snapshot returns the latest published state.
func (o *Orchestrator) Snapshot() Snapshot {
	return *o.snap.Load()
}

// Start validates job and launches a run in the background. It returns the
// run id, a *ValidationError, or ErrRunActive while a previous run has not
// returned. A rejected start leaves the current state untouched.
func (o *Orchestrator) Start(ctx context.Context, job Job) (string, error) {
	o.mu.Lock()
	if o.active {
		o.mu.Unlock()
		return "", ErrRunActive
	}
	if _, err := job.Validate(); err != nil {
		o.mu.Unlock()
		return "", err
	}

	id := uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)
	r := &run{
		id:    id,
		job:   job,
		log:   NewLog(o.logger.With("run_id", id)),
		state: Idle,
	}
	o.cur = r
	o.active = true
	o.cancel = cancel
	o.done = make(chan struct{})
	o.publishLocked(r)

	r.state = FetchingMetadata
	r.stage = "Fetching video info"
	r.log.Append(LevelInfo, fmt.Sprintf("Starting run for %s", job.URL))
	o.publishLocked(r)
	o.mu.Unlock()

	o.notify()

	go o.execute(runCtx, r)
	return id, nil
}

// Cancel stops the active run. It returns false when nothing is running.
// The run goroutine may still be cleaning up when Cancel returns; use Wait
// to block until it has.
func (o *Orchestrator) Cancel() bool {
	o.mu.Lock()
	r := o.cur
	if r == nil || !o.active || !r.state.Running() {
		o.mu.Unlock()
		return false
	}
	r.state = Cancelled
	r.stage = "Cancelled"
	r.log.Append(LevelWarn, "Run cancelled")
	o.cancel()
	o.publishLocked(r)
	o.mu.Unlock()

	o.notify()
	return true
}

// Acknowledge returns a finished run to Idle. The log of the run stays
// readable until the next Start.
func (o *Orchestrator) Acknowledge() bool {
	o.mu.Lock()
	r := o.cur
	if r == nil || o.active || !r.state.Terminal() {
		o.mu.Unlock()
		return false
	}
	r.state = Idle
	r.stage = ""
	r.percent = 0
	o.publishLocked(r)
	o.mu.Unlock()

	o.notify()
	return true
}

// Wait blocks until the current run goroutine has returned.
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	done := o.done
	o.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (o *Orchestrator) publishLocked(r *run) {
	snap := Snapshot{
		RunID:     r.id,
		State:     r.state,
		Percent:   r.percent,
		Stage:     r.stage,
		Log:       r.log.Entries(),
		Metadata:  r.meta,
		Succeeded: r.succeeded,
		Failed:    r.failed,
		Outputs:   r.outputs[:len(r.outputs):len(r.outputs)],
		Err:       r.err,
	}
	o.snap.Store(&snap)
}

// notify hands the latest published snapshot to onProgress, one call at a
// time, so the callback observes snapshots in publish order.
func (o *Orchestrator) notify() {
	if o.onProgress == nil {
		return
	}
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	latest := o.snap.Load()
	if latest == nil || latest == o.notified {
		return
	}
	o.notified = latest
	o.onProgress(*latest)
}

// update applies fn to r under the lock and publishes the result.
func (o *Orchestrator) update(r *run, fn func(r *run)) {
	o.mu.Lock()
	fn(r)
	o.publishLocked(r)
	o.mu.Unlock()
	o.notify()
}

// enter moves r to state unless it was cancelled meanwhile.
func (o *Orchestrator) enter(r *run, state State, stage string) {
	o.update(r, func(r *run) {
		if r.state.Terminal() {
			return
		}
		r.state = state
		r.stage = stage
		r.setPercent(Percent(state, 0))
	})
}

func (o *Orchestrator) progress(r *run, fraction float64, stage string) {
	o.update(r, func(r *run) {
		if r.state.Terminal() {
			return
		}
		r.setPercent(Percent(r.state, fraction))
		if stage != "" {
			r.stage = stage
		}
	})
}

func (o *Orchestrator) logf(r *run, level Level, format string, args ...any) {
	o.update(r, func(r *run) {
		r.log.Append(level, fmt.Sprintf(format, args...))
	})
}

func (o *Orchestrator) execute(ctx context.Context, r *run) {
	defer func() {
		o.mu.Lock()
		o.active = false
		o.cancel()
		close(o.done)
		o.mu.Unlock()
	}()

	err := o.runStages(ctx, r)
	o.finish(ctx, r, err)
}

func (o *Orchestrator) finish(ctx context.Context, r *run, err error) {
	o.update(r, func(r *run) {
		switch {
		case r.state == Cancelled:
		case err == nil:
			r.state = Complete
			r.stage = "Complete"
			r.setPercent(Percent(Complete, 1))
		case ctx.Err() != nil:
			r.state = Cancelled
			r.stage = "Cancelled"
			r.log.Append(LevelWarn, "Run cancelled")
		default:
			r.state = Failed
			r.stage = "Failed"
			r.err = err.Error()
			r.log.Append(LevelError, r.err)
		}
	})
}

func (o *Orchestrator) runStages(ctx context.Context, r *run) error {
	job := r.job

	meta, err := o.deps.Fetcher.Fetch(ctx, job.URL)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return &FetchError{URL: job.URL, Err: err}
	}
	o.update(r, func(r *run) {
		r.meta = &meta
		r.setPercent(Percent(FetchingMetadata, 1))
		r.log.Append(LevelInfo, fmt.Sprintf("Found %q by %s (%s)", meta.Title, meta.Channel, meta.DurationString()))
	})

	res := tracklist.Resolve(job.Template, job.Tracklist, meta.DurationSeconds)
	if !res.Ready() {
		return &ValidationError{
			Field: "tracklist",
			Msg:   countNoun(res.InvalidCount(), "track") + " past the end of the video",
			Err:   firstTrackError(res),
		}
	}
	album := o.newAlbum(job, meta, res.Valid())

	if ctx.Err() != nil {
		return ctx.Err()
	}
	o.enter(r, Downloading, "Downloading audio")

	workDir, err := os.MkdirTemp(o.tempDir, "bootleg-")
	if err != nil {
		return fmt.Errorf("create working directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			o.logf(r, LevelWarn, "Could not remove working directory %s: %v", workDir, err)
		}
	}()

	source, cover, err := o.download(ctx, r, album, workDir)
	if err != nil {
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	o.enter(r, Splitting, "Preparing output directory")

	unlock, err := o.lockOutput(album.Path)
	if err != nil {
		return err
	}
	defer unlock()

	cut, err := o.split(ctx, r, album, source)
	if err != nil {
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	o.enter(r, Tagging, "Writing tags")

	var tagArt []byte
	if cover != nil && o.settings.SaveCoverArtInTags {
		tagArt = o.prepareArtwork(ctx, r, cover, o.settings.CoverArtInTagsResize, o.settings.CoverArtInTagsMaxSize)
	}
	if err := o.tag(ctx, r, cut, tagArt); err != nil {
		return err
	}

	if cover != nil && o.settings.SaveCoverArtInFolder {
		o.saveCover(ctx, r, album, cover)
	}
	if o.settings.CreatePlaylist {
		o.writePlaylist(ctx, r, album, cut)
	}

	o.update(r, func(r *run) {
		r.log.Append(LevelInfo, fmt.Sprintf("%d succeeded / %d failed", r.succeeded, r.failed))
	})
	return nil
}

// newAlbum builds the output album from the job and the fetched metadata.
func (o *Orchestrator) newAlbum(job Job, meta model.MediaMetadata, tracks []tracklist.Track) *model.Album {
	pathCfg := o.settings.ToPathConfig()
	pathCfg.DownloadsPath = job.OutputDir

	title := strings.TrimSpace(job.Album)
	if title == "" {
		title = meta.Title
	}

	album := model.NewAlbum(strings.TrimSpace(job.Artist), title, meta.ThumbnailURL, meta.PublishDate, pathCfg)
	trackCfg := o.settings.ToTrackConfig()
	for i, t := range tracks {
		seg := model.Segment{Start: t.Start, End: t.End, HasEnd: t.HasEnd}
		album.Tracks = append(album.Tracks, model.NewTrack(album, i+1, t.Name, seg, trackCfg))
	}
	return album
}

func (o *Orchestrator) wantsCover() bool {
	return o.deps.CoverArt != nil && (o.settings.SaveCoverArtInTags || o.settings.SaveCoverArtInFolder)
}

// download fetches the audio and, alongside it, the cover art. A cover art
// failure only logs a warning.
func (o *Orchestrator) download(ctx context.Context, r *run, album *model.Album, dir string) (string, []byte, error) {
	var (
		source string
		cover  []byte
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path, err := o.deps.Downloader.Download(gctx, r.job.URL, dir, func(fraction float64) {
			o.progress(r, fraction, fmt.Sprintf("Downloading audio %.0f%%", fraction*100))
		})
		if err != nil {
			return err
		}
		source = path
		return nil
	})
	if o.wantsCover() && album.HasArtwork() {
		g.Go(func() error {
			data, err := o.deps.CoverArt.FetchCover(gctx, album.ArtworkURL)
			if err != nil {
				if gctx.Err() == nil {
					o.logf(r, LevelWarn, "Cover art unavailable: %v", err)
				}
				return nil
			}
			cover = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return "", nil, ctx.Err()
		}
		return "", nil, &DownloadError{URL: r.job.URL, Err: err}
	}
	if ctx.Err() != nil {
		return "", nil, ctx.Err()
	}

	o.update(r, func(r *run) {
		r.setPercent(Percent(Downloading, 1))
		r.log.Append(LevelInfo, fmt.Sprintf("Downloaded audio to %s", filepath.Base(source)))
	})
	return source, cover, nil
}

// lockOutput creates dir and takes an exclusive lock on it for the rest of
// the run.
func (o *Orchestrator) lockOutput(dir string) (func(), error) {
	if err := ioutils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock output directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("output directory %s is in use by another run", dir)
	}
	return func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}, nil
}

// split cuts every track in order. Failed tracks are logged and skipped;
// on cancellation the in-progress output is removed and nothing else is
// touched.
func (o *Orchestrator) split(ctx context.Context, r *run, album *model.Album, source string) ([]*model.Track, error) {
	total := len(album.Tracks)
	var cut []*model.Track

	for i, track := range album.Tracks {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		o.progress(r, float64(i)/float64(total), fmt.Sprintf("Splitting track %d/%d: %s", i+1, total, track.Title))

		err := o.deps.Splitter.Split(ctx, source, track.Segment, track.Path)
		if ctx.Err() != nil {
			o.discard(r, track.Path)
			return nil, ctx.Err()
		}
		if err != nil {
			serr := &SplitError{Track: track.Number, Name: track.Title, Err: err}
			o.update(r, func(r *run) {
				r.failed++
				r.log.Append(LevelError, serr.Error())
			})
			continue
		}

		cut = append(cut, track)
		o.update(r, func(r *run) {
			r.succeeded++
			r.outputs = append(r.outputs, track.Path)
			r.setPercent(Percent(Splitting, float64(i+1)/float64(total)))
			r.log.Append(LevelInfo, fmt.Sprintf("Created %s", filepath.Base(track.Path)))
		})
	}

	if len(cut) == 0 {
		return nil, fmt.Errorf("%w: %s failed", ErrNothingSplit, countNoun(total, "track"))
	}
	return cut, nil
}

func (o *Orchestrator) discard(r *run, path string) {
	if err := ioutils.RemoveIfExists(path); err != nil {
		o.logf(r, LevelWarn, "Could not remove partial file %s: %v", path, err)
		return
	}
	o.logf(r, LevelDebug, "Removed partial file %s", filepath.Base(path))
}

func (o *Orchestrator) tag(ctx context.Context, r *run, tracks []*model.Track, artwork []byte) error {
	for i, track := range tracks {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := o.deps.Tagger.Tag(track.Path, track.Tags(artwork)); err != nil {
			terr := &TagError{Track: track.Number, Path: track.Path, Err: err}
			o.logf(r, LevelError, "%v", terr)
		}
		o.progress(r, float64(i+1)/float64(len(tracks)), fmt.Sprintf("Tagging track %d/%d", i+1, len(tracks)))
	}
	return nil
}

// prepareArtwork resizes and re-encodes cover art as configured. It
// returns nil when the image cannot be decoded.
func (o *Orchestrator) prepareArtwork(ctx context.Context, r *run, data []byte, resize bool, maxSize int) []byte {
	out := data
	if resize && maxSize > 0 {
		resized, err := o.images.ResizeImage(ctx, out, maxSize, maxSize)
		if err != nil {
			o.logf(r, LevelWarn, "Could not resize cover art: %v", err)
			return nil
		}
		out = resized
	}
	if o.settings.ConvertCoverArtToJPG {
		jpg, err := o.images.ConvertToJPEG(ctx, out)
		if err != nil {
			o.logf(r, LevelWarn, "Could not convert cover art: %v", err)
			return nil
		}
		out = jpg
	}
	return out
}

func (o *Orchestrator) saveCover(ctx context.Context, r *run, album *model.Album, cover []byte) {
	data := o.prepareArtwork(ctx, r, cover, o.settings.CoverArtInFolderResize, o.settings.CoverArtInFolderMaxSize)
	if data == nil {
		return
	}
	path := album.ArtworkPath
	if o.settings.ConvertCoverArtToJPG {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".jpg"
	}
	if err := ioutils.WriteFile(ctx, path, data); err != nil {
		o.logf(r, LevelWarn, "Could not save cover art: %v", err)
		return
	}
	o.logf(r, LevelInfo, "Saved cover art to %s", filepath.Base(path))
}

func (o *Orchestrator) writePlaylist(ctx context.Context, r *run, album *model.Album, tracks []*model.Track) {
	creator := audio.NewPlaylistCreator(model.ParsePlaylistFormat(o.settings.PlaylistFormat), o.settings.M3UExtended)
	content := creator.CreatePlaylist(album, tracks)
	if err := ioutils.WriteFile(ctx, album.PlaylistPath, []byte(content)); err != nil {
		o.logf(r, LevelWarn, "Could not create playlist: %v", err)
		return
	}
	o.logf(r, LevelInfo, "Created playlist %s", filepath.Base(album.PlaylistPath))
}
