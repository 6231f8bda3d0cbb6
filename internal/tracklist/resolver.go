package tracklist

import "errors"

var errMissingTimestamp = errors.New("no timestamp")

// Track is a tracklist entry turned into a cut window.
type Track struct {
	// Index is the 1-based position among non-blank lines.
	Index        int
	Line         int
	Text         string
	Name         string
	Start        int
	End          int
	HasTimestamp bool
	// HasEnd is false while the last track waits for the media duration.
	HasEnd bool
	Valid  bool
	Err    error
}

// Length returns End-Start, or 0 when the end is still pending.
func (t Track) Length() int {
	if !t.HasEnd {
		return 0
	}
	return t.End - t.Start
}

// ResolveEntries turns parsed entries into tracks. A duration <= 0 means
// the media length is unknown and the last valid track stays open ended.
//
// Entries with a parse error become invalid tracks. A timestamp that is not
// strictly greater than the previous valid one is flagged with an
// *OrderingError, and the previous valid timestamp stays the baseline for
// the entries that follow. When the duration is known, tracks starting at
// or after it are flagged too.
func ResolveEntries(entries []Entry, duration int) []Track {
	tracks := make([]Track, len(entries))
	baseline := -1

	for i, e := range entries {
		t := Track{
			Index:        i + 1,
			Line:         e.Line,
			Text:         e.Text,
			Name:         e.Name,
			Start:        e.Seconds,
			HasTimestamp: e.HasTimestamp,
		}

		switch {
		case e.Err != nil:
			t.Err = e.Err
		case !e.HasTimestamp:
			t.Err = &LineError{Line: e.Line, Text: e.Text, Err: errMissingTimestamp}
		case e.Seconds < 0:
			t.Err = &LineError{Line: e.Line, Text: e.Text, Err: ErrTimestampRange}
		case baseline >= 0 && e.Seconds <= baseline:
			t.Err = &OrderingError{Line: e.Line, Start: e.Seconds, Previous: baseline}
		case duration > 0 && e.Seconds >= duration:
			t.Err = &OrderingError{Line: e.Line, Start: e.Seconds, Previous: baseline, Duration: duration}
		default:
			t.Valid = true
			baseline = e.Seconds
		}

		tracks[i] = t
	}

	last := -1
	for i := range tracks {
		if !tracks[i].Valid {
			continue
		}
		if last >= 0 {
			tracks[last].End = tracks[i].Start
			tracks[last].HasEnd = true
		}
		last = i
	}
	if last >= 0 && duration > 0 {
		tracks[last].End = duration
		tracks[last].HasEnd = true
	}

	return tracks
}

// Result is the outcome of one Resolve call.
type Result struct {
	Template    *Template
	TemplateErr error
	Tracks      []Track
	Duration    int
}

// Resolve compiles template, parses text and resolves the entries against
// duration. It keeps no state between calls and is meant to be invoked on
// every edit.
func Resolve(template, text string, duration int) Result {
	tpl, err := Compile(template)
	if err != nil {
		return Result{TemplateErr: err, Duration: duration}
	}
	return Result{
		Template: tpl,
		Tracks:   ResolveEntries(Parse(tpl, text), duration),
		Duration: duration,
	}
}

// Valid returns the valid tracks in order.
func (r Result) Valid() []Track {
	var valid []Track
	for _, t := range r.Tracks {
		if t.Valid {
			valid = append(valid, t)
		}
	}
	return valid
}

// InvalidCount returns how many tracks carry an error.
func (r Result) InvalidCount() int {
	n := 0
	for _, t := range r.Tracks {
		if !t.Valid {
			n++
		}
	}
	return n
}

// Ready reports whether the template compiled and every track is valid,
// with at least one track present.
func (r Result) Ready() bool {
	return r.TemplateErr == nil && len(r.Tracks) > 0 && r.InvalidCount() == 0
}
