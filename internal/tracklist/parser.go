package tracklist

import "strings"

// Entry is one non-blank tracklist line reduced by the template.
type Entry struct {
	// Line is the 1-based line number in the source text.
	Line         int
	Text         string
	Name         string
	Seconds      int
	HasTimestamp bool
	Err          error
}

// Parse applies tpl to every non-blank line of text, in order. Lines that
// do not match produce an Entry whose Err is a *LineError; blank lines are
// skipped. Parse has no side effects, so calling it again with the same
// input returns an identical result.
func Parse(tpl *Template, text string) []Entry {
	if tpl == nil {
		return nil
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	entries := make([]Entry, 0, len(lines))

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		entry := Entry{Line: i + 1, Text: line}
		m, err := tpl.Match(line)
		if err != nil {
			entry.Err = &LineError{Line: i + 1, Text: line, Err: err}
		} else {
			entry.Name = m.Name
			entry.Seconds = m.Timestamp()
			entry.HasTimestamp = true
		}
		entries = append(entries, entry)
	}

	return entries
}
