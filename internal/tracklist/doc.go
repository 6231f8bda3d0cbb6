// Package tracklist turns a freeform tracklist into timestamped cut windows.
//
// # Templates
//
// A template describes one tracklist line using placeholders delimited by
// percent signs:
//
//	%songname%         the track name (required, exactly once)
//	%hh% %mm% %ss%     hour, minute and second components (at least one)
//	%ignore:<regexp>%  text matched by the pattern and discarded
//	%%                 a literal percent sign
//
// Everything else is matched literally. For example:
//
//	tpl, err := tracklist.Compile("%songname% - %hh%:%mm%:%ss%")
//	m, err := tpl.Match("Intro - 0:02:15") // m.Name == "Intro", m.Timestamp() == 135
//
// # Resolving
//
// Resolve compiles, parses and resolves in one call and keeps no state,
// so callers simply run it again on every edit:
//
//	res := tracklist.Resolve(template, text, durationSeconds)
//	preview := tracklist.Project(res)
//	fmt.Println(preview.Status) // "12 tracks ready"
//
// Errors never escape as panics. A broken template is reported in
// Result.TemplateErr; unparseable lines and out-of-order timestamps are
// attached to the affected Track while the rest of the list resolves
// normally.
package tracklist
