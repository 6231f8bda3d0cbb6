package ytdlp

import (
	"strconv"
	"strings"
)

const progressPrefix = "bootleg-progress:"

// Progress is one parsed progress line.
type Progress struct {
	Downloaded int64
	Total      int64
}

// Fraction returns Downloaded/Total clamped to 0..1, or 0 if the total is
// unknown.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Downloaded) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// parseProgress reads a line produced by the progress template,
// e.g. "bootleg-progress:1048576/4194304". yt-dlp prints "NA" for fields it
// does not know yet and may emit floats for estimates.
func parseProgress(line string) (Progress, bool) {
	rest, ok := strings.CutPrefix(line, progressPrefix)
	if !ok {
		return Progress{}, false
	}

	done, total, ok := strings.Cut(rest, "/")
	if !ok {
		return Progress{}, true
	}

	var p Progress
	p.Downloaded = parseBytes(done)
	p.Total = parseBytes(total)
	return p, true
}

func parseBytes(s string) int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int64(f)
	}
	return 0
}
