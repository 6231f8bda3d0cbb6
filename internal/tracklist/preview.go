package tracklist

import "fmt"

const (
	maxPreviewName     = 30
	missingTimestamp   = "-:--:--"
	truncationEllipsis = "..."
)

// Row is one display line of the preview.
type Row struct {
	Index     int
	Line      int
	Name      string
	Timestamp string
	// Length is empty while the end of the track is unknown.
	Length string
	Valid  bool
	Error  string
}

// Preview is the display form of a Result.
type Preview struct {
	Rows          []Row
	Status        string
	Valid         bool
	TemplateError string
}

// Project maps a Result to rows and an aggregate status. It reads nothing
// but its argument.
func Project(res Result) Preview {
	p := Preview{Valid: res.Ready()}
	if res.TemplateErr != nil {
		p.TemplateError = res.TemplateErr.Error()
		return p
	}

	p.Rows = make([]Row, 0, len(res.Tracks))
	for _, t := range res.Tracks {
		row := Row{
			Index:     t.Index,
			Line:      t.Line,
			Name:      t.Name,
			Timestamp: missingTimestamp,
			Valid:     t.Valid,
		}
		if row.Name == "" {
			row.Name = truncate(t.Text, maxPreviewName)
		}
		if t.HasTimestamp {
			row.Timestamp = FormatTimestamp(t.Start)
		}
		if t.HasEnd {
			row.Length = FormatTimestamp(t.Length())
		}
		if t.Err != nil {
			row.Error = t.Err.Error()
		}
		p.Rows = append(p.Rows, row)
	}

	p.Status = status(len(res.Tracks), res.InvalidCount())
	return p
}

func status(total, invalid int) string {
	switch {
	case total == 0:
		return ""
	case invalid == 1:
		return "1 error"
	case invalid > 1:
		return fmt.Sprintf("%d errors", invalid)
	case total == 1:
		return "1 track ready"
	default:
		return fmt.Sprintf("%d tracks ready", total)
	}
}

// FormatTimestamp renders seconds as H:MM:SS.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + truncationEllipsis
}
