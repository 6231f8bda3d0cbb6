// Package session is the command interface the CLI and TUI talk to. It
// keeps the edited form (URL, template, tracklist, artist, album, output
// directory), recomputes the preview on every edit and hands complete jobs
// to a pipeline.Orchestrator.
package session
