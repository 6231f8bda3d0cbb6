package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/handiism/bootleg-splitter/internal/model"
	"github.com/handiism/bootleg-splitter/internal/tracklist"
)

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	DownloadsPath string `json:"downloads_path" toml:"downloads_path"`

	// Tracklist
	Template string `json:"template" toml:"template"`

	// External tools
	YtDlpBinary  string `json:"ytdlp_binary" toml:"ytdlp_binary"`
	FFmpegBinary string `json:"ffmpeg_binary" toml:"ffmpeg_binary"`
	AudioQuality string `json:"audio_quality" toml:"audio_quality"` // yt-dlp --audio-quality
	SplitQuality int    `json:"split_quality" toml:"split_quality"` // LAME -q:a, 0 (best) to 9

	// File naming
	FileNameFormat         string `json:"file_name_format" toml:"file_name_format"`
	CoverArtFileNameFormat string `json:"cover_art_file_name_format" toml:"cover_art_file_name_format"`
	PlaylistFileNameFormat string `json:"playlist_file_name_format" toml:"playlist_file_name_format"`

	// Cover art settings
	SaveCoverArtInFolder    bool `json:"save_cover_art_in_folder" toml:"save_cover_art_in_folder"`
	SaveCoverArtInTags      bool `json:"save_cover_art_in_tags" toml:"save_cover_art_in_tags"`
	CoverArtInFolderResize  bool `json:"cover_art_in_folder_resize" toml:"cover_art_in_folder_resize"`
	CoverArtInFolderMaxSize int  `json:"cover_art_in_folder_max_size" toml:"cover_art_in_folder_max_size"`
	CoverArtInTagsResize    bool `json:"cover_art_in_tags_resize" toml:"cover_art_in_tags_resize"`
	CoverArtInTagsMaxSize   int  `json:"cover_art_in_tags_max_size" toml:"cover_art_in_tags_max_size"`
	ConvertCoverArtToJPG    bool `json:"convert_cover_art_to_jpg" toml:"convert_cover_art_to_jpg"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist" toml:"create_playlist"`
	PlaylistFormat string `json:"playlist_format" toml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended" toml:"m3u_extended"`

	// Tag settings
	ModifyTags bool `json:"modify_tags" toml:"modify_tags"`

	// Logging
	LogLevel  string `json:"log_level" toml:"log_level"`   // debug, info, warn, error
	LogFormat string `json:"log_format" toml:"log_format"` // console, json
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DownloadsPath: filepath.Join(homeDir, "Music", "Bootlegs", "{artist}", "{album}"),

		Template: tracklist.DefaultTemplate,

		YtDlpBinary:  "yt-dlp",
		FFmpegBinary: "ffmpeg",
		AudioQuality: "192K",
		SplitQuality: 2,

		FileNameFormat:         "{tracknum} - {title}.mp3",
		CoverArtFileNameFormat: "cover",
		PlaylistFileNameFormat: "{album}",

		SaveCoverArtInFolder:    false,
		SaveCoverArtInTags:      true,
		CoverArtInFolderResize:  false,
		CoverArtInFolderMaxSize: 1000,
		CoverArtInTagsResize:    true,
		CoverArtInTagsMaxSize:   1000,
		ConvertCoverArtToJPG:    true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ModifyTags: true,

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// DefaultPath returns the settings file location under the user config
// directory, e.g. ~/.config/bootleg-splitter/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "bootleg-splitter", "config.toml")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads settings from a JSON file, or TOML when the extension is
// .toml. A missing file yields the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isTOML(path) {
		err = toml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	return settings, nil
}

// Save writes settings to path in the format implied by its extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports every invalid option at once.
func (s *Settings) Validate() error {
	var errs []error

	if strings.TrimSpace(s.DownloadsPath) == "" {
		errs = append(errs, errors.New("downloads_path must not be empty"))
	}
	if _, err := tracklist.Compile(s.Template); err != nil {
		errs = append(errs, fmt.Errorf("template: %w", err))
	}
	if !strings.Contains(s.FileNameFormat, "{tracknum}") && !strings.Contains(s.FileNameFormat, "{title}") {
		errs = append(errs, errors.New("file_name_format must contain {tracknum} or {title}"))
	}
	if s.SplitQuality < 0 || s.SplitQuality > 9 {
		errs = append(errs, fmt.Errorf("split_quality must be between 0 and 9, got %d", s.SplitQuality))
	}
	if s.CoverArtInTagsResize && s.CoverArtInTagsMaxSize <= 0 {
		errs = append(errs, errors.New("cover_art_in_tags_max_size must be positive"))
	}
	if s.CoverArtInFolderResize && s.CoverArtInFolderMaxSize <= 0 {
		errs = append(errs, errors.New("cover_art_in_folder_max_size must be positive"))
	}
	switch strings.ToLower(s.PlaylistFormat) {
	case "m3u", "pls", "wpl", "zpl":
	default:
		errs = append(errs, fmt.Errorf("playlist_format %q is not one of m3u, pls, wpl, zpl", s.PlaylistFormat))
	}
	switch strings.ToLower(s.LogFormat) {
	case "", "console", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q is not one of console, json", s.LogFormat))
	}

	return errors.Join(errs...)
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		DownloadsPath:          s.DownloadsPath,
		CoverArtFileNameFormat: s.CoverArtFileNameFormat,
		PlaylistFileNameFormat: s.PlaylistFileNameFormat,
		PlaylistFormat:         model.ParsePlaylistFormat(s.PlaylistFormat),
	}
}

// ToTrackConfig converts settings to TrackConfig.
func (s *Settings) ToTrackConfig() *model.TrackConfig {
	return &model.TrackConfig{
		FileNameFormat: s.FileNameFormat,
	}
}
