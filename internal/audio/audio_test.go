package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/bogem/id3v2"

	"github.com/handiism/bootleg-splitter/internal/model"
)

func writeFakeMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "01 - Intro.mp3")
	// Not real audio; id3v2 only cares about the tag header.
	if err := os.WriteFile(path, []byte("\xff\xfbfake-mpeg-frames"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTagger_Tag(t *testing.T) {
	path := writeFakeMP3(t)
	cover := []byte("\xff\xd8\xff\xe0jpeg")

	err := NewTagger(nil).Tag(path, model.Tags{
		Artist:      "The Band",
		Album:       "Live at the Hall",
		Title:       "Intro",
		TrackNumber: 1,
		TotalTracks: 12,
		Year:        "2019",
		Artwork:     cover,
	})
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tag.Close()

	if tag.Artist() != "The Band" || tag.Album() != "Live at the Hall" || tag.Title() != "Intro" {
		t.Errorf("text frames = %q / %q / %q", tag.Artist(), tag.Album(), tag.Title())
	}
	if got := tag.GetTextFrame("TRCK").Text; got != "1/12" {
		t.Errorf("TRCK = %q, want 1/12", got)
	}
	if tag.Year() != "2019" {
		t.Errorf("Year = %q", tag.Year())
	}

	pics := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pics) != 1 {
		t.Fatalf("got %d pictures, want 1", len(pics))
	}
	pic, ok := pics[0].(id3v2.PictureFrame)
	if !ok || string(pic.Picture) != string(cover) || pic.PictureType != id3v2.PTFrontCover {
		t.Errorf("unexpected picture frame %+v", pics[0])
	}
}

func TestTagger_TagKeepsAudio(t *testing.T) {
	path := writeFakeMP3(t)

	if err := NewTagger(nil).Tag(path, model.Tags{Title: "Intro", TrackNumber: 3}); err != nil {
		t.Fatalf("Tag: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "ID3") {
		t.Error("file should start with an ID3 header")
	}
	if !strings.HasSuffix(string(data), "fake-mpeg-frames") {
		t.Error("audio payload should be preserved after the tag")
	}
}

func TestTagger_ClearsComments(t *testing.T) {
	path := writeFakeMP3(t)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding: id3v2.EncodingUTF8,
		Language: "eng",
		Text:     "downloaded with yt-dlp",
	})
	if err := tag.Save(); err != nil {
		t.Fatal(err)
	}
	tag.Close()

	if err := NewTagger(DefaultTagConfig()).Tag(path, model.Tags{Title: "Intro"}); err != nil {
		t.Fatalf("Tag: %v", err)
	}

	tag, err = id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()
	if n := len(tag.GetFrames(tag.CommonID("Comments"))); n != 0 {
		t.Errorf("got %d comment frames, want 0", n)
	}
}

func TestTagger_MissingFile(t *testing.T) {
	err := NewTagger(nil).Tag(filepath.Join(t.TempDir(), "missing.mp3"), model.Tags{Title: "x"})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTrackNumber(t *testing.T) {
	tests := []struct {
		tags model.Tags
		want string
	}{
		{model.Tags{TrackNumber: 2, TotalTracks: 9}, "2/9"},
		{model.Tags{TrackNumber: 2}, "2"},
		{model.Tags{}, ""},
	}
	for _, tt := range tests {
		if got := trackNumber(tt.tags); got != tt.want {
			t.Errorf("trackNumber(%+v) = %q, want %q", tt.tags, got, tt.want)
		}
	}
}

func writeFFmpegStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor last; do :; done\n" + body
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestSplitter_Args(t *testing.T) {
	s := NewSplitter("", nil)

	closed := strings.Join(s.args("src.mp3", model.Segment{Start: 135, End: 402, HasEnd: true}, "out.mp3"), " ")
	want := "-hide_banner -loglevel error -nostdin -y -ss 135 -i src.mp3 -t 267 -map 0:a:0 -vn -c:a libmp3lame -q:a 2 out.mp3"
	if closed != want {
		t.Errorf("args =\n%s\nwant\n%s", closed, want)
	}

	open := s.args("src.mp3", model.Segment{Start: 600}, "out.mp3")
	for _, a := range open {
		if a == "-t" {
			t.Error("open segment should not pass -t")
		}
	}
}

func TestSplitter_Split(t *testing.T) {
	stub := writeFFmpegStub(t, "echo cut > \"$last\"\n")
	out := filepath.Join(t.TempDir(), "01 - Intro.mp3")

	err := NewSplitter(stub, nil).Split(context.Background(), "src.mp3", model.Segment{Start: 0, End: 10, HasEnd: true}, out)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if data, _ := os.ReadFile(out); strings.TrimSpace(string(data)) != "cut" {
		t.Errorf("output = %q", data)
	}
}

func TestSplitter_FailureRemovesPartialOutput(t *testing.T) {
	stub := writeFFmpegStub(t, "echo half > \"$last\"\necho 'src.mp3: Invalid data found when processing input' >&2\nexit 1\n")
	out := filepath.Join(t.TempDir(), "02 - Broken.mp3")

	err := NewSplitter(stub, nil).Split(context.Background(), "src.mp3", model.Segment{Start: 10}, out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Errorf("error should carry ffmpeg detail: %v", err)
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("partial output should be removed, stat err = %v", statErr)
	}
}

func TestSplitter_Cancelled(t *testing.T) {
	stub := writeFFmpegStub(t, "echo half > \"$last\"\nexec sleep 5\n")
	out := filepath.Join(t.TempDir(), "03 - Slow.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewSplitter(stub, nil).Split(ctx, "src.mp3", model.Segment{Start: 0}, out)
	}()

	waitForFile(t, out)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("partial output should be removed, stat err = %v", statErr)
	}
}

func TestSplitter_InvalidSegment(t *testing.T) {
	err := NewSplitter("", nil).Split(context.Background(), "src.mp3", model.Segment{Start: 10, End: 5, HasEnd: true}, "out.mp3")
	if err == nil {
		t.Fatal("expected error for inverted segment")
	}
}

func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", path)
}
