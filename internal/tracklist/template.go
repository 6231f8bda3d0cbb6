package tracklist

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultTemplate matches lines such as "Intro - 2:15".
const DefaultTemplate = "%songname% - %mm%:%ss%"

// maxComponent bounds each of hh, mm and ss so the weighted sum stays well
// inside a 32-bit int.
const maxComponent = 99999

// ErrTimestampRange is returned for timestamps that cannot be a position
// inside a recording.
var ErrTimestampRange = errors.New("timestamp out of range")

const delimiter = '%'

// Role identifies what a placeholder contributes to a parsed line.
type Role int

const (
	RoleSongName Role = iota + 1
	RoleHours
	RoleMinutes
	RoleSeconds
	RoleIgnore
)

// String returns the placeholder token for the role.
func (r Role) String() string {
	switch r {
	case RoleSongName:
		return "songname"
	case RoleHours:
		return "hh"
	case RoleMinutes:
		return "mm"
	case RoleSeconds:
		return "ss"
	case RoleIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

func (r Role) numeric() bool {
	return r == RoleHours || r == RoleMinutes || r == RoleSeconds
}

var numericTokens = map[string]Role{
	"hh": RoleHours,
	"mm": RoleMinutes,
	"ss": RoleSeconds,
}

// Template is a compiled tracklist template. It is immutable and safe for
// concurrent use.
type Template struct {
	source string
	re     *regexp.Regexp
	roles  []Role
	groups map[Role]int
}

// Match holds the components extracted from one tracklist line.
type Match struct {
	Name    string
	Hours   int
	Minutes int
	Seconds int
}

// Timestamp returns the start offset in seconds.
func (m Match) Timestamp() int {
	return m.Hours*3600 + m.Minutes*60 + m.Seconds
}

// Compile turns a template such as "%songname% - %hh%:%mm%:%ss%" into a
// line matcher.
//
// Recognised placeholders are %songname%, %hh%, %mm%, %ss% and
// %ignore:<regexp>%. A doubled delimiter (%%) stands for a literal percent
// sign, which also means an ignore pattern cannot contain one. Compile never
// panics; malformed input yields a *CompileError describing the first
// violation found.
func Compile(text string) (*Template, error) {
	src := strings.TrimSpace(text)
	if src == "" {
		return nil, &CompileError{Pos: 0, Msg: "template is empty"}
	}

	t := &Template{source: text, groups: make(map[Role]int)}

	var pattern strings.Builder
	pattern.WriteString("^")

	group := 0
	prevNumeric := false

	for i := 0; i < len(src); {
		if src[i] != delimiter {
			end := strings.IndexByte(src[i:], delimiter)
			if end < 0 {
				end = len(src) - i
			}
			pattern.WriteString(regexp.QuoteMeta(src[i : i+end]))
			i += end
			prevNumeric = false
			continue
		}

		if i+1 < len(src) && src[i+1] == delimiter {
			pattern.WriteString("%")
			i += 2
			prevNumeric = false
			continue
		}

		closing := strings.IndexByte(src[i+1:], delimiter)
		if closing < 0 {
			return nil, &CompileError{Pos: i, Msg: "unterminated placeholder"}
		}
		pos := i
		token := src[i+1 : i+1+closing]
		i += closing + 2

		switch {
		case token == "songname":
			if _, dup := t.groups[RoleSongName]; dup {
				return nil, &CompileError{Pos: pos, Msg: "duplicate %songname% placeholder"}
			}
			group++
			t.groups[RoleSongName] = group
			t.roles = append(t.roles, RoleSongName)
			pattern.WriteString("(.+?)")
			prevNumeric = false

		case numericTokens[token] != 0:
			role := numericTokens[token]
			if _, dup := t.groups[role]; dup {
				return nil, &CompileError{Pos: pos, Msg: fmt.Sprintf("duplicate %%%s%% placeholder", token)}
			}
			group++
			t.groups[role] = group
			t.roles = append(t.roles, role)
			// Without a separator the only way to tell "0215" apart is a fixed width.
			if prevNumeric {
				pattern.WriteString(`(\d{2})`)
			} else {
				pattern.WriteString(`(\d+)`)
			}
			prevNumeric = true

		case strings.HasPrefix(token, "ignore:"):
			expr := strings.TrimPrefix(token, "ignore:")
			if expr == "" {
				return nil, &CompileError{Pos: pos, Msg: "empty ignore pattern"}
			}
			sub, err := regexp.Compile(expr)
			if err != nil {
				return nil, &CompileError{Pos: pos, Msg: fmt.Sprintf("invalid ignore pattern %q: %v", expr, err)}
			}
			group += sub.NumSubexp()
			t.roles = append(t.roles, RoleIgnore)
			pattern.WriteString("(?:" + expr + ")")
			prevNumeric = false

		default:
			return nil, &CompileError{Pos: pos, Msg: fmt.Sprintf("unknown placeholder %%%s%%", token)}
		}
	}

	if _, ok := t.groups[RoleSongName]; !ok {
		return nil, &CompileError{Pos: len(src), Msg: "template needs a %songname% placeholder"}
	}
	if !t.hasNumeric() {
		return nil, &CompileError{Pos: len(src), Msg: "template needs at least one of %hh%, %mm% or %ss%"}
	}

	pattern.WriteString("$")
	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, &CompileError{Pos: 0, Msg: err.Error()}
	}
	t.re = re

	return t, nil
}

// MustCompile is like Compile but panics on error. Intended for constants.
func MustCompile(text string) *Template {
	t, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) hasNumeric() bool {
	for role := range t.groups {
		if role.numeric() {
			return true
		}
	}
	return false
}

// String returns the template source as given to Compile.
func (t *Template) String() string {
	return t.source
}

// Roles returns the placeholder roles in template order.
func (t *Template) Roles() []Role {
	return append([]Role(nil), t.roles...)
}

// Match parses a single tracklist line. The line is trimmed before matching.
func (t *Template) Match(line string) (Match, error) {
	line = strings.TrimSpace(line)

	sub := t.re.FindStringSubmatch(line)
	if sub == nil {
		return Match{}, fmt.Errorf("does not match template %q", strings.TrimSpace(t.source))
	}

	m := Match{Name: strings.TrimSpace(sub[t.groups[RoleSongName]])}
	if m.Name == "" {
		return Match{}, fmt.Errorf("track name is empty")
	}

	var err error
	if m.Hours, err = t.component(sub, RoleHours); err != nil {
		return Match{}, err
	}
	if m.Minutes, err = t.component(sub, RoleMinutes); err != nil {
		return Match{}, err
	}
	if m.Seconds, err = t.component(sub, RoleSeconds); err != nil {
		return Match{}, err
	}

	if _, ok := t.groups[RoleSeconds]; ok && m.Seconds >= 60 {
		return Match{}, fmt.Errorf("seconds must be below 60, got %d", m.Seconds)
	}
	if _, ok := t.groups[RoleHours]; ok && m.Minutes >= 60 {
		return Match{}, fmt.Errorf("minutes must be below 60, got %d", m.Minutes)
	}

	return m, nil
}

func (t *Template) component(sub []string, role Role) (int, error) {
	idx, ok := t.groups[role]
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(sub[idx])
	if err != nil || n > maxComponent {
		return 0, fmt.Errorf("%w: %s value %q", ErrTimestampRange, role, sub[idx])
	}
	return n, nil
}
