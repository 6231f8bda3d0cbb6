package tracklist

import "fmt"

// CompileError reports a malformed template. Pos is the byte offset of the
// offending token in the trimmed template.
type CompileError struct {
	Pos int
	Msg string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("template error at position %d: %s", e.Pos, e.Msg)
}

// LineError reports a tracklist line the template could not parse.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// OrderingError marks a track whose start time does not follow the previous
// valid track, or which starts at or after the end of the media.
type OrderingError struct {
	Line     int
	Start    int
	Previous int
	// Duration is set when the track was rejected for starting past the
	// end of the media.
	Duration int
}

func (e *OrderingError) Error() string {
	if e.Duration > 0 {
		return fmt.Sprintf("line %d: starts at %s, at or after the end of the media (%s)",
			e.Line, FormatTimestamp(e.Start), FormatTimestamp(e.Duration))
	}
	return fmt.Sprintf("line %d: %s is not after the previous track at %s",
		e.Line, FormatTimestamp(e.Start), FormatTimestamp(e.Previous))
}
