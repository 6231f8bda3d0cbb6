// Package pipeline drives a bootleg split from start to finish.
//
// An Orchestrator takes a Job (video URL, tracklist template and text,
// artist, album, output directory) and runs it through four stages:
//
//	FetchingMetadata -> Downloading -> Splitting -> Tagging -> Complete
//
// Any running stage may end in Failed or Cancelled. A failed cut skips that
// track only; the run fails when no track could be cut.
//
// Progress is published as an immutable Snapshot after every change, so a
// UI can poll Snapshot or subscribe with WithProgress without touching the
// run goroutine:
//
//	o := pipeline.New(pipeline.Deps{
//	    Fetcher:    ytdlpClient,
//	    Downloader: ytdlpClient,
//	    Splitter:   audio.NewSplitter("ffmpeg", logger),
//	    Tagger:     audio.NewTagger(audio.DefaultTagConfig()),
//	    CoverArt:   http.NewClient(),
//	}, pipeline.WithSettings(settings), pipeline.WithLogger(logger))
//
//	id, err := o.Start(ctx, job)
//	...
//	o.Wait()
//	fmt.Println(o.Snapshot().State)
package pipeline
