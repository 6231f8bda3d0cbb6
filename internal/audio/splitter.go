package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	ioutils "github.com/handiism/bootleg-splitter/internal/io"
	"github.com/handiism/bootleg-splitter/internal/model"
)

const (
	// DefaultFFmpegBinary is resolved from PATH.
	DefaultFFmpegBinary = "ffmpeg"
	DefaultCodec        = "libmp3lame"
	// DefaultQuality is the LAME VBR quality (0 best, 9 worst).
	DefaultQuality = 2
)

// Splitter cuts segments out of a source recording with ffmpeg.
//
// Example:
//
//	splitter := NewSplitter("", logger)
//	err := splitter.Split(ctx, "/tmp/work/abc.mp3", model.Segment{Start: 135, End: 402, HasEnd: true}, track.Path)
type Splitter struct {
	Binary  string
	Codec   string
	Quality int

	logger *slog.Logger
}

// NewSplitter creates a Splitter. An empty binary means DefaultFFmpegBinary.
func NewSplitter(binary string, logger *slog.Logger) *Splitter {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultFFmpegBinary
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Splitter{
		Binary:  binary,
		Codec:   DefaultCodec,
		Quality: DefaultQuality,
		logger:  logger,
	}
}

// Split encodes seg of source into outputPath, overwriting it. An open
// segment runs to the end of the source. On failure or cancellation the
// partial output is removed.
func (s *Splitter) Split(ctx context.Context, source string, seg model.Segment, outputPath string) error {
	if seg.Start < 0 || (seg.HasEnd && seg.End <= seg.Start) {
		return fmt.Errorf("invalid segment %d-%d", seg.Start, seg.End)
	}

	args := s.args(source, seg, outputPath)
	s.logger.Debug("running ffmpeg", "binary", s.Binary, "args", args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.Binary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if rmErr := ioutils.RemoveIfExists(outputPath); rmErr != nil {
			s.logger.Warn("could not remove partial output", "path", outputPath, "error", rmErr)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return fmt.Errorf("ffmpeg: %w", err)
		}
		return errors.Join(fmt.Errorf("ffmpeg: %w", err), errors.New(lastLine(detail)))
	}

	return nil
}

// args builds the ffmpeg command line. Seeking before -i keeps long
// recordings fast; re-encoding makes the cut sample accurate.
func (s *Splitter) args(source string, seg model.Segment, outputPath string) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-y",
		"-ss", strconv.Itoa(seg.Start),
		"-i", source,
	}
	if seg.HasEnd {
		args = append(args, "-t", strconv.Itoa(seg.Length()))
	}
	args = append(args,
		"-map", "0:a:0",
		"-vn",
		"-c:a", s.Codec,
		"-q:a", strconv.Itoa(s.Quality),
		outputPath,
	)
	return args
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
