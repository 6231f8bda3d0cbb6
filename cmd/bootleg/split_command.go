package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/handiism/bootleg-splitter/internal/pipeline"
	"github.com/handiism/bootleg-splitter/internal/session"
)

type splitOptions struct {
	url       string
	tracklist string
	template  string
	artist    string
	album     string
	output    string
}

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var opts splitOptions

	cmd := &cobra.Command{
		Use:   "split [url]",
		Short: "Download a video and split it into tracks",
		Example: `  bootleg split https://youtu.be/abc --tracklist setlist.txt --artist "The Band"
  pbpaste | bootleg split --url https://youtu.be/abc --album "Live at the Roxy"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && opts.url == "" {
				opts.url = args[0]
			}
			return runSplit(cmd, ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "Video URL")
	cmd.Flags().StringVarP(&opts.tracklist, "tracklist", "t", "-", "Tracklist file, - reads stdin")
	cmd.Flags().StringVar(&opts.template, "template", "", "Tracklist line template (overrides config)")
	cmd.Flags().StringVar(&opts.artist, "artist", "", "Artist tag and folder name")
	cmd.Flags().StringVar(&opts.album, "album", "", "Album tag and folder name (defaults to the video title)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (overrides config)")
	return cmd
}

func readTracklist(cmd *cobra.Command, path string) (string, error) {
	var r io.Reader
	if path == "" || path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open tracklist: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read tracklist: %w", err)
	}
	return string(data), nil
}

func runSplit(cmd *cobra.Command, ctx *commandContext, opts splitOptions) error {
	settings, err := ctx.ensureSettings()
	if err != nil {
		return err
	}
	text, err := readTracklist(cmd, opts.tracklist)
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	interactive := shouldColorize(errOut)

	reporter := newProgressReporter(errOut, interactive)
	logger, err := ctx.logger(reporter.logWriter(), interactive)
	if err != nil {
		return err
	}

	deps := pipeline.DefaultDeps(settings, logger)
	orch := pipeline.New(deps,
		pipeline.WithSettings(settings),
		pipeline.WithLogger(logger),
		pipeline.WithProgress(reporter.update),
	)

	s := session.New(orch, deps.Fetcher, settings)
	s.SetURL(opts.url)
	if opts.template != "" {
		s.SetTemplate(opts.template)
	}
	s.SetTracklistText(text)
	s.SetArtist(opts.artist)
	s.SetAlbum(opts.album)
	if opts.output != "" {
		s.SetOutputDir(filepath.Join(opts.output, "{artist}", "{album}"))
	}
	if warning := s.URLWarning(); warning != "" {
		painter(errOut, color.FgYellow).Fprintf(errOut, "warning: %s\n", warning)
	}

	if err := s.StartPipeline(); err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCtx.Done():
			if s.CancelPipeline() {
				reporter.println("Interrupted, cancelling...")
			}
		case <-done:
		}
	}()
	s.Wait()
	close(done)
	reporter.finish()

	return printSummary(cmd.OutOrStdout(), s.State())
}

func printSummary(out io.Writer, snap pipeline.Snapshot) error {
	switch snap.State {
	case pipeline.Complete:
		painter(out, color.FgGreen, color.Bold).Fprintf(out, "Done: %d succeeded / %d failed\n", snap.Succeeded, snap.Failed)
		for _, path := range snap.Outputs {
			fmt.Fprintf(out, "  %s\n", path)
		}
		return nil
	case pipeline.Cancelled:
		painter(out, color.FgYellow).Fprintln(out, "Cancelled.")
		return context.Canceled
	case pipeline.Failed:
		if snap.Err == "" {
			return errors.New("run failed")
		}
		return errors.New(snap.Err)
	default:
		return fmt.Errorf("run ended in state %s", snap.State)
	}
}

// progressReporter draws the run percentage as a progress bar on a
// terminal. Log lines written through logWriter clear the bar first.
type progressReporter struct {
	mu  sync.Mutex
	out io.Writer
	bar *progressbar.ProgressBar
}

func newProgressReporter(out io.Writer, interactive bool) *progressReporter {
	r := &progressReporter{out: out}
	if interactive {
		r.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Starting"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	return r
}

func (r *progressReporter) update(snap pipeline.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		return
	}
	if snap.Stage != "" {
		r.bar.Describe(snap.Stage)
	}
	_ = r.bar.Set(int(snap.Percent))
}

func (r *progressReporter) println(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Clear()
	}
	fmt.Fprintln(r.out, strings.TrimSpace(msg))
}

func (r *progressReporter) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

func (r *progressReporter) logWriter() io.Writer {
	return reporterWriter{r}
}

type reporterWriter struct {
	r *progressReporter
}

func (w reporterWriter) Write(p []byte) (int, error) {
	w.r.mu.Lock()
	defer w.r.mu.Unlock()
	if w.r.bar != nil {
		_ = w.r.bar.Clear()
	}
	return w.r.out.Write(p)
}
