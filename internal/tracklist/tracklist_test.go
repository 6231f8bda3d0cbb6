package tracklist

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCompile_Valid(t *testing.T) {
	tests := []struct {
		template string
		roles    []Role
	}{
		{DefaultTemplate, []Role{RoleSongName, RoleMinutes, RoleSeconds}},
		{"%songname% - %hh%:%mm%:%ss%", []Role{RoleSongName, RoleHours, RoleMinutes, RoleSeconds}},
		{"%hh%:%mm%:%ss% %songname%", []Role{RoleHours, RoleMinutes, RoleSeconds, RoleSongName}},
		{"%songname% %ss%", []Role{RoleSongName, RoleSeconds}},
		{`%ignore:\d+\.% %songname% (%mm%:%ss%)`, []Role{RoleIgnore, RoleSongName, RoleMinutes, RoleSeconds}},
		{"  %songname% %% %mm%:%ss%  ", []Role{RoleSongName, RoleMinutes, RoleSeconds}},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			tpl, err := Compile(tt.template)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.template, err)
			}
			if !reflect.DeepEqual(tpl.Roles(), tt.roles) {
				t.Errorf("Roles() = %v, want %v", tpl.Roles(), tt.roles)
			}
			if tpl.String() != tt.template {
				t.Errorf("String() = %q, want %q", tpl.String(), tt.template)
			}
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		template string
		msg      string
	}{
		{"empty", "   ", "empty"},
		{"unterminated", "%songname - %mm%:%ss%", "unknown placeholder"},
		{"unterminated at end", "%songname% - %ss", "unterminated"},
		{"unknown token", "%songname% %track% %ss%", "unknown placeholder %track%"},
		{"duplicate songname", "%songname% %songname% %ss%", "duplicate %songname%"},
		{"duplicate numeric", "%songname% %ss% %ss%", "duplicate %ss%"},
		{"missing songname", "%mm%:%ss%", "needs a %songname%"},
		{"missing timestamp", "%songname% - live", "at least one of"},
		{"unbalanced ignore", "%ignore:(ab% %songname% %ss%", "invalid ignore pattern"},
		{"empty ignore", "%ignore:% %songname% %ss%", "empty ignore pattern"},
		{"stray delimiter", "%songname% %%% %ss%", "unknown placeholder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := Compile(tt.template)
			if err == nil {
				t.Fatalf("Compile(%q) = %v, want error", tt.template, tpl)
			}
			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not *CompileError", err)
			}
			if !strings.Contains(ce.Msg, tt.msg) {
				t.Errorf("Msg = %q, want it to contain %q", ce.Msg, tt.msg)
			}
		})
	}
}

func TestCompile_PositionOfUnterminated(t *testing.T) {
	_, err := Compile("%songname% - %ss")
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CompileError, got %v", err)
	}
	if ce.Pos != 13 {
		t.Errorf("Pos = %d, want 13", ce.Pos)
	}
}

func TestTemplate_Match(t *testing.T) {
	tests := []struct {
		name     string
		template string
		line     string
		wantName string
		wantSecs int
	}{
		{"hms round trip", "%songname% - %hh%:%mm%:%ss%", "Intro - 0:02:15", "Intro", 135},
		{"default", DefaultTemplate, "Song Two - 4:05", "Song Two", 245},
		{"name containing separator", DefaultTemplate, "Part 1 - Part 2 - 10:00", "Part 1 - Part 2", 600},
		{"minutes beyond an hour without hh", DefaultTemplate, "Encore - 75:30", "Encore", 4530},
		{"timestamp first", "%hh%:%mm%:%ss% %songname%", "1:00:01 Closer", "Closer", 3601},
		{"ignore prefix", `%ignore:\d+\.% %songname% (%mm%:%ss%)`, "12. Outro (58:09)", "Outro", 3489},
		{"ignore with group", `%ignore:(CD|LP)\d% %songname% %mm%:%ss%`, "CD2 Jam 3:00", "Jam", 180},
		{"adjacent numerics", "%songname% %mm%%ss%", "Song 0215", "Song", 135},
		{"literal percent", "%songname% %% %mm%:%ss%", "Volume % 1:00", "Volume", 60},
		{"surrounding whitespace", DefaultTemplate, "   Padded   - 1:01  ", "Padded", 61},
		{"regexp metacharacters in literal", "[%mm%:%ss%] %songname%", "[0:30] Why?", "Why?", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := MustCompile(tt.template)
			m, err := tpl.Match(tt.line)
			if err != nil {
				t.Fatalf("Match(%q) error: %v", tt.line, err)
			}
			if m.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", m.Name, tt.wantName)
			}
			if m.Timestamp() != tt.wantSecs {
				t.Errorf("Timestamp() = %d, want %d", m.Timestamp(), tt.wantSecs)
			}
		})
	}
}

func TestTemplate_MatchErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		line     string
		msg      string
	}{
		{"no match", DefaultTemplate, "just a title", "does not match"},
		{"seconds too large", DefaultTemplate, "Song - 1:75", "seconds must be below 60"},
		{"minutes too large with hours", "%songname% - %hh%:%mm%:%ss%", "Song - 1:60:00", "minutes must be below 60"},
		{"hours out of range", "%songname% - %hh%:%mm%:%ss%", "Song - 100000:00:00", "timestamp out of range"},
		{"digits beyond int", DefaultTemplate, "Song - 99999999999999999999:00", "timestamp out of range"},
		{"blank name", "%songname%- %mm%:%ss%", " - 1:00", "does not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MustCompile(tt.template).Match(tt.line)
			if err == nil {
				t.Fatalf("Match(%q) succeeded, want error", tt.line)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.msg)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tpl := MustCompile(DefaultTemplate)
	text := "Intro - 0:00\r\n\n   \nbroken line\nOutro - 3:10\n"

	entries := Parse(tpl, text)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}

	if entries[0].Name != "Intro" || entries[0].Line != 1 || !entries[0].HasTimestamp {
		t.Errorf("entry 0 = %+v", entries[0])
	}

	var le *LineError
	if !errors.As(entries[1].Err, &le) {
		t.Fatalf("entry 1 error = %v, want *LineError", entries[1].Err)
	}
	if le.Line != 4 || le.Text != "broken line" {
		t.Errorf("LineError = %+v", le)
	}
	if entries[1].HasTimestamp {
		t.Error("errored entry should not carry a timestamp")
	}

	if entries[2].Name != "Outro" || entries[2].Seconds != 190 || entries[2].Line != 5 {
		t.Errorf("entry 2 = %+v", entries[2])
	}
}

func TestParse_Deterministic(t *testing.T) {
	tpl := MustCompile(DefaultTemplate)
	text := "A - 0:00\nnope\nB - 1:00\nC - 0:30"

	first := Parse(tpl, text)
	second := Parse(tpl, text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Parse is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestParse_NilTemplate(t *testing.T) {
	if got := Parse(nil, "A - 0:00"); got != nil {
		t.Errorf("Parse(nil) = %v, want nil", got)
	}
}

func TestResolve_OrderingError(t *testing.T) {
	res := Resolve(DefaultTemplate, "A - 0:00\nB - 0:05\nC - 0:03", 0)

	if len(res.Tracks) != 3 {
		t.Fatalf("got %d tracks", len(res.Tracks))
	}
	if !res.Tracks[0].Valid || !res.Tracks[1].Valid {
		t.Errorf("A and B should be valid: %+v", res.Tracks[:2])
	}

	c := res.Tracks[2]
	if c.Valid {
		t.Fatal("C should be invalid")
	}
	var oe *OrderingError
	if !errors.As(c.Err, &oe) {
		t.Fatalf("C error = %v, want *OrderingError", c.Err)
	}
	if oe.Start != 3 || oe.Previous != 5 {
		t.Errorf("OrderingError = %+v", oe)
	}
	if res.Ready() {
		t.Error("Ready() should be false with an ordering error")
	}
}

func TestResolve_BaselineIsPreviousValid(t *testing.T) {
	res := Resolve(DefaultTemplate, "A - 0:00\nB - 0:10\nC - 0:05\nD - 0:20", 0)

	wantValid := []bool{true, true, false, true}
	for i, want := range wantValid {
		if res.Tracks[i].Valid != want {
			t.Errorf("track %d Valid = %v, want %v", i+1, res.Tracks[i].Valid, want)
		}
	}

	b := res.Tracks[1]
	if !b.HasEnd || b.End != 20 {
		t.Errorf("B should end where D starts, got End=%d HasEnd=%v", b.End, b.HasEnd)
	}
	if res.InvalidCount() != 1 {
		t.Errorf("InvalidCount() = %d, want 1", res.InvalidCount())
	}
}

func TestResolve_Duration(t *testing.T) {
	text := "A - 0:00\nB - 1:00\nC - 2:30"

	pending := Resolve(DefaultTemplate, text, 0)
	last := pending.Tracks[2]
	if last.HasEnd {
		t.Errorf("last track should be pending without a duration, got End=%d", last.End)
	}

	known := Resolve(DefaultTemplate, text, 300)
	valid := known.Valid()
	if len(valid) != 3 {
		t.Fatalf("got %d valid tracks", len(valid))
	}
	for i := 1; i < len(valid); i++ {
		if valid[i].Start <= valid[i-1].Start {
			t.Errorf("start times not increasing: %d then %d", valid[i-1].Start, valid[i].Start)
		}
	}
	for _, tr := range valid {
		if !tr.HasEnd || tr.Start >= tr.End {
			t.Errorf("track %d has window %d-%d (HasEnd=%v)", tr.Index, tr.Start, tr.End, tr.HasEnd)
		}
	}
	if valid[2].End != 300 {
		t.Errorf("last End = %d, want 300", valid[2].End)
	}
}

func TestResolve_StartPastDuration(t *testing.T) {
	res := Resolve(DefaultTemplate, "A - 0:00\nB - 1:00\nC - 5:00", 120)

	if !res.Tracks[1].Valid || res.Tracks[1].End != 120 {
		t.Errorf("B should now be last with End=120: %+v", res.Tracks[1])
	}
	var oe *OrderingError
	if !errors.As(res.Tracks[2].Err, &oe) || oe.Duration != 120 {
		t.Errorf("C error = %v, want end-of-media ordering error", res.Tracks[2].Err)
	}
}

func TestResolve_OversizedTimestamp(t *testing.T) {
	res := Resolve("%songname% - %hh%:%mm%:%ss%", "A - 9999999999999999:00:00\nB - 0:00:10\nC - 0:00:05", 0)

	if res.Tracks[0].Valid || !errors.Is(res.Tracks[0].Err, ErrTimestampRange) {
		t.Errorf("A = %+v, want an out of range error", res.Tracks[0])
	}
	if !res.Tracks[1].Valid || res.Tracks[1].Start != 10 {
		t.Errorf("B = %+v, want valid at 10s", res.Tracks[1])
	}
	var oe *OrderingError
	if !errors.As(res.Tracks[2].Err, &oe) || oe.Previous != 10 {
		t.Errorf("C error = %v, want ordering error against 10s", res.Tracks[2].Err)
	}
	for _, tr := range res.Tracks {
		if tr.Valid && tr.Start < 0 {
			t.Errorf("track %d is valid with start %d", tr.Index, tr.Start)
		}
	}
}

func TestResolveEntries_NegativeStart(t *testing.T) {
	tracks := ResolveEntries([]Entry{
		{Line: 1, Text: "A", Name: "A", Seconds: -5, HasTimestamp: true},
		{Line: 2, Text: "B", Name: "B", Seconds: 30, HasTimestamp: true},
	}, 0)

	if tracks[0].Valid || !errors.Is(tracks[0].Err, ErrTimestampRange) {
		t.Errorf("negative start = %+v, want out of range", tracks[0])
	}
	if !tracks[1].Valid {
		t.Errorf("B should stay valid: %+v", tracks[1])
	}
}

func TestResolve_ParseErrorDoesNotAffectNeighbours(t *testing.T) {
	res := Resolve(DefaultTemplate, "A - 0:00\ngarbage\nB - 1:00", 200)

	if res.Tracks[1].Valid {
		t.Fatal("garbage line should be invalid")
	}
	if res.Tracks[0].End != 60 || res.Tracks[2].End != 200 {
		t.Errorf("neighbour windows wrong: %+v", res.Tracks)
	}
	if res.Tracks[1].Index != 2 {
		t.Errorf("invalid track Index = %d, want 2", res.Tracks[1].Index)
	}
}

func TestResolve_TemplateError(t *testing.T) {
	res := Resolve("%mm%:%ss%", "A - 0:00", 0)

	var ce *CompileError
	if !errors.As(res.TemplateErr, &ce) {
		t.Fatalf("TemplateErr = %v, want *CompileError", res.TemplateErr)
	}
	if len(res.Tracks) != 0 || res.Ready() {
		t.Errorf("template error should produce no tracks: %+v", res)
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		status string
		valid  bool
	}{
		{"empty", "", "", false},
		{"blank lines only", "\n  \n", "", false},
		{"one ready", "A - 0:00", "1 track ready", true},
		{"all ready", "A - 0:00\nB - 1:00\nC - 2:00", "3 tracks ready", true},
		{"one error", "A - 0:00\nB", "1 error", false},
		{"two errors", "A - 0:00\nB\nC - 0:00", "2 errors", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(Resolve(DefaultTemplate, tt.text, 0))
			if p.Status != tt.status {
				t.Errorf("Status = %q, want %q", p.Status, tt.status)
			}
			if p.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v", p.Valid, tt.valid)
			}
		})
	}
}

func TestProject_Rows(t *testing.T) {
	long := "this line is far too long to match anything at all"
	res := Resolve(DefaultTemplate, "Intro - 2:15\n"+long+"\nOutro - 59:59", 3700)
	p := Project(res)

	if len(p.Rows) != 3 {
		t.Fatalf("got %d rows", len(p.Rows))
	}

	intro := p.Rows[0]
	if intro.Timestamp != "0:02:15" || intro.Length != "0:57:44" || !intro.Valid || intro.Error != "" {
		t.Errorf("intro row = %+v", intro)
	}

	bad := p.Rows[1]
	if bad.Timestamp != "-:--:--" || bad.Valid || bad.Error == "" {
		t.Errorf("invalid row = %+v", bad)
	}
	if bad.Name != long[:30]+"..." {
		t.Errorf("invalid row Name = %q", bad.Name)
	}

	outro := p.Rows[2]
	if outro.Timestamp != "0:59:59" || outro.Length != "0:01:41" {
		t.Errorf("outro row = %+v", outro)
	}
}

func TestProject_TemplateError(t *testing.T) {
	p := Project(Resolve("%songname%", "A - 0:00", 0))
	if p.Status != "" || p.Valid || len(p.Rows) != 0 {
		t.Errorf("template error preview = %+v", p)
	}
	if p.TemplateError == "" {
		t.Error("TemplateError should be set")
	}
}

func TestProject_Stateless(t *testing.T) {
	res := Resolve(DefaultTemplate, "A - 0:00\nB - 0:00", 0)
	if !reflect.DeepEqual(Project(res), Project(res)) {
		t.Error("Project should return the same preview for the same input")
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00:00"},
		{135, "0:02:15"},
		{3600, "1:00:00"},
		{36061, "10:01:01"},
		{-5, "0:00:00"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
