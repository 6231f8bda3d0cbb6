// Package ytdlp fetches video metadata and audio through the yt-dlp
// command line tool.
//
// # Metadata
//
// Fetch runs `yt-dlp --dump-single-json` and converts the result:
//
//	client := ytdlp.NewClient("", logger)
//	meta, err := client.Fetch(ctx, "https://youtu.be/abc")
//	fmt.Println(meta.Title, meta.DurationString(), meta.FormattedViews())
//
// The thumbnail is chosen by preference and width, favouring YouTube's
// maxresdefault, hqdefault and mqdefault images.
//
// # Download
//
// Download extracts the best audio stream to MP3 in the given directory.
// yt-dlp is run with a machine readable progress template so the caller
// receives a fraction between 0 and 1:
//
//	path, err := client.Download(ctx, url, tmpDir, func(f float64) {
//	    bar.Set(int(f * 100))
//	})
//
// Private, removed and unavailable videos are reported as errors wrapping
// ErrUnavailable.
package ytdlp
