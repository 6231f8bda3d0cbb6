package pipeline

import (
	"log/slog"

	"github.com/handiism/bootleg-splitter/internal/audio"
	"github.com/handiism/bootleg-splitter/internal/config"
	"github.com/handiism/bootleg-splitter/internal/http"
	"github.com/handiism/bootleg-splitter/internal/ytdlp"
)

// DefaultDeps wires the real tools from settings: yt-dlp fetches and
// downloads, ffmpeg splits, id3v2 tags and the thumbnail comes over HTTP.
func DefaultDeps(settings *config.Settings, logger *slog.Logger) Deps {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	client := ytdlp.NewClient(settings.YtDlpBinary, logger)
	if settings.AudioQuality != "" {
		client.AudioQuality = settings.AudioQuality
	}

	splitter := audio.NewSplitter(settings.FFmpegBinary, logger)
	splitter.Quality = settings.SplitQuality

	tagConfig := audio.DefaultTagConfig()
	tagConfig.ModifyTags = settings.ModifyTags

	return Deps{
		Fetcher:    client,
		Downloader: client,
		Splitter:   splitter,
		Tagger:     audio.NewTagger(tagConfig),
		CoverArt:   http.NewClient(),
	}
}
