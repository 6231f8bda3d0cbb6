package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/bootleg-splitter/internal/model"
)

func TestDefaultSettings_Valid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Template != DefaultSettings().Template {
		t.Errorf("Template = %q", s.Template)
	}
}

func TestLoad_TOMLPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "template = \"%songname% (%hh%:%mm%:%ss%)\"\ncreate_playlist = true\nplaylist_format = \"pls\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Template != "%songname% (%hh%:%mm%:%ss%)" || !s.CreatePlaylist {
		t.Errorf("overrides not applied: %+v", s)
	}
	if s.FileNameFormat != "{tracknum} - {title}.mp3" {
		t.Errorf("unset key lost its default: %q", s.FileNameFormat)
	}
	if s.ToPathConfig().PlaylistFormat != model.PlaylistFormatPLS {
		t.Error("PlaylistFormat should map to PLS")
	}
}

func TestSaveLoad_JSONAndTOML(t *testing.T) {
	for _, name := range []string{"settings.json", "settings.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			s := DefaultSettings()
			s.DownloadsPath = "/srv/music/{album}"
			s.SplitQuality = 0

			if err := s.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if loaded.DownloadsPath != "/srv/music/{album}" || loaded.SplitQuality != 0 {
				t.Errorf("loaded = %+v", loaded)
			}
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	s := DefaultSettings()
	s.Template = "%mm%:%ss%"
	s.PlaylistFormat = "xspf"
	s.SplitQuality = 12

	err := s.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"template", "playlist_format", "split_quality"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestToTrackConfig(t *testing.T) {
	s := DefaultSettings()
	s.FileNameFormat = "{title}.mp3"
	if got := s.ToTrackConfig().FileNameFormat; got != "{title}.mp3" {
		t.Errorf("FileNameFormat = %q", got)
	}
}
