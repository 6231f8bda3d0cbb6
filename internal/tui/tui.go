// Package tui provides a Bubble Tea terminal user interface for bootleg-splitter.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/bootleg-splitter/internal/config"
	"github.com/handiism/bootleg-splitter/internal/model"
	"github.com/handiism/bootleg-splitter/internal/pipeline"
	"github.com/handiism/bootleg-splitter/internal/session"
	"github.com/handiism/bootleg-splitter/internal/tracklist"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	videoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

const (
	maxLogLines     = 10
	maxPreviewLines = 12
)

// field identifies a form input.
type field int

const (
	fieldURL field = iota
	fieldArtist
	fieldAlbum
	fieldOutput
	fieldTemplate
	fieldTracklist
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldURL:       "Video URL",
	fieldArtist:    "Artist",
	fieldAlbum:     "Album",
	fieldOutput:    "Output folder",
	fieldTemplate:  "Template",
	fieldTracklist: "Tracklist",
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	session *session.Session

	inputs    [fieldTracklist]textinput.Model
	tracklist textarea.Model
	focus     field

	spinner  spinner.Model
	progress progress.Model

	snap    pipeline.Snapshot
	preview tracklist.Preview
	loading bool
	err     string

	width  int
	height int
}

// NewModel creates a new TUI model backed by s.
func NewModel(s *session.Session, settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	placeholders := [fieldTracklist]string{
		fieldURL:      "https://www.youtube.com/watch?v=...",
		fieldArtist:   "Artist name",
		fieldAlbum:    "Defaults to the video title",
		fieldOutput:   settings.DownloadsPath,
		fieldTemplate: tracklist.DefaultTemplate,
	}

	var inputs [fieldTracklist]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 500
		ti.Width = 60
		inputs[i] = ti
	}
	job := s.Job()
	inputs[fieldOutput].SetValue(job.OutputDir)
	inputs[fieldTemplate].SetValue(job.Template)
	inputs[fieldURL].Focus()

	ta := textarea.New()
	ta.Placeholder = "Intro - 0:00\nFirst Song - 2:15\n..."
	ta.CharLimit = 20000
	ta.MaxHeight = 1000
	ta.SetWidth(60)
	ta.SetHeight(8)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	return Model{
		session:   s,
		inputs:    inputs,
		tracklist: ta,
		spinner:   sp,
		progress:  prog,
		snap:      s.State(),
		preview:   s.Preview(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.tickProgress())
}

// Message types
type (
	// InfoLoadedMsg is sent when the video metadata prefetch completes.
	InfoLoadedMsg struct {
		Meta model.MediaMetadata
		Err  error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

func (m Model) running() bool {
	return m.snap.State != pipeline.Idle
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case TickMsg:
		m.snap = m.session.State()
		cmds = append(cmds, m.progress.SetPercent(m.snap.Percent/100), m.tickProgress())

	case InfoLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = fmt.Sprintf("Could not load video info: %v", msg.Err)
		} else {
			m.err = ""
		}
		m.preview = m.session.Preview()

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if !m.running() {
		cmds = append(cmds, m.updateFocused(msg))
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes global shortcuts. It reports false when the key
// should reach the focused input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.session.CancelPipeline()
		return tea.Quit, true

	case "esc":
		if !m.running() {
			return tea.Quit, true
		}
		if m.snap.State.Running() {
			m.session.CancelPipeline()
			m.snap = m.session.State()
		}
		return nil, true

	case "tab", "shift+tab":
		if m.running() {
			return nil, true
		}
		step := field(1)
		if msg.String() == "shift+tab" {
			step = fieldCount - 1
		}
		return m.setFocus((m.focus + step) % fieldCount), true

	case "ctrl+s":
		if m.running() {
			return nil, true
		}
		if err := m.session.StartPipeline(); err != nil {
			m.err = err.Error()
			return nil, true
		}
		m.err = ""
		m.snap = m.session.State()
		return nil, true

	case "ctrl+l":
		if m.running() || m.loading {
			return nil, true
		}
		m.loading = true
		return m.loadInfo(), true

	case "q":
		if m.snap.State.Terminal() {
			return tea.Quit, true
		}

	case "r":
		if m.snap.State.Terminal() {
			m.session.Acknowledge()
			m.snap = m.session.State()
			return m.progress.SetPercent(0), true
		}
	}
	return nil, false
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.tracklist.Blur()
	if f == fieldTracklist {
		return m.tracklist.Focus()
	}
	return m.inputs[f].Focus()
}

// updateFocused forwards msg to the focused input and pushes its value into
// the session.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == fieldTracklist {
		before := m.tracklist.Value()
		m.tracklist, cmd = m.tracklist.Update(msg)
		if v := m.tracklist.Value(); v != before {
			m.preview = m.session.SetTracklistText(v)
		}
		return cmd
	}

	in := &m.inputs[m.focus]
	before := in.Value()
	*in, cmd = in.Update(msg)
	if v := in.Value(); v != before {
		m.apply(m.focus, v)
	}
	return cmd
}

func (m *Model) apply(f field, value string) {
	switch f {
	case fieldURL:
		m.session.SetURL(value)
	case fieldArtist:
		m.session.SetArtist(value)
	case fieldAlbum:
		m.session.SetAlbum(value)
	case fieldOutput:
		m.session.SetOutputDir(value)
	case fieldTemplate:
		m.preview = m.session.SetTemplate(value)
		return
	}
	m.preview = m.session.Preview()
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m Model) loadInfo() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		meta, err := s.LoadInfo(ctx)
		return InfoLoadedMsg{Meta: meta, Err: err}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ Bootleg Splitter"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Split live recordings into tagged tracks"))
	b.WriteString("\n\n")

	switch {
	case !m.running():
		b.WriteString(m.viewForm())
	case m.snap.State.Running():
		b.WriteString(m.viewRunning())
	case m.snap.State == pipeline.Complete:
		b.WriteString(m.viewComplete())
	default:
		b.WriteString(m.viewFailed())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder

	for i := range m.inputs {
		f := field(i)
		b.WriteString(m.label(f))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
		if f == fieldURL {
			if w := m.session.URLWarning(); w != "" {
				b.WriteString(warningStyle.Render("! " + w))
				b.WriteString("\n")
			}
			if meta := m.session.Metadata(); meta != nil {
				b.WriteString(videoStyle.Render(fmt.Sprintf("  %s • %s • %s • %s",
					meta.Title, meta.Channel, meta.DurationString(), meta.FormattedViews())))
				b.WriteString("\n")
			} else if m.loading {
				b.WriteString(m.spinner.View() + " " + dimStyle.Render("Loading video info..."))
				b.WriteString("\n")
			}
		}
		if f == fieldTemplate && m.preview.TemplateError != "" {
			b.WriteString(errorStyle.Render("✗ " + m.preview.TemplateError))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.label(fieldTracklist))
	b.WriteString("\n")
	b.WriteString(m.tracklist.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderPreview())

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + m.err))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) label(f field) string {
	if f == m.focus {
		return subtitleStyle.Render("› " + fieldLabels[f])
	}
	return dimStyle.Render("  " + fieldLabels[f])
}

func (m Model) renderPreview() string {
	var b strings.Builder

	rows := m.preview.Rows
	if len(rows) == 0 {
		return ""
	}

	shown := rows
	if len(shown) > maxPreviewLines {
		shown = shown[:maxPreviewLines]
	}
	for _, row := range shown {
		line := fmt.Sprintf("%3d  %s  %-33s", row.Index, row.Timestamp, row.Name)
		if row.Valid {
			if row.Length != "" {
				line += dimStyle.Render(" " + row.Length)
			}
			b.WriteString(infoStyle.Render(line))
		} else {
			b.WriteString(errorStyle.Render(line + " " + row.Error))
		}
		b.WriteString("\n")
	}
	if more := len(rows) - len(shown); more > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", more)))
		b.WriteString("\n")
	}

	if m.preview.Valid {
		b.WriteString(successStyle.Render("✓ " + m.preview.Status))
	} else {
		b.WriteString(errorStyle.Render("✗ " + m.preview.Status))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	if meta := m.snap.Metadata; meta != nil {
		b.WriteString(videoStyle.Render(fmt.Sprintf("♪ %s (%s)", meta.Title, meta.DurationString())))
		b.WriteString("\n\n")
	}

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(m.snap.Stage))
	b.WriteString("\n\n")

	b.WriteString(m.progress.View())
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Tracks: %d done | %d failed", m.snap.Succeeded, m.snap.Failed)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	title := "✨ Split Complete!"
	if m.snap.Failed > 0 {
		title = "Split finished with errors"
	}
	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Tracks: %d\n"+
			"Failed: %d",
		title,
		m.snap.Succeeded,
		m.snap.Failed,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewFailed() string {
	var b strings.Builder

	if m.snap.State == pipeline.Cancelled {
		b.WriteString(warningStyle.Render("! Cancelled"))
	} else {
		b.WriteString(errorStyle.Render("✗ Error occurred:"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  %s", m.snap.Err))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	events := m.snap.Log
	if len(events) > maxLogLines {
		events = events[len(events)-maxLogLines:]
	}
	for _, ev := range events {
		var style lipgloss.Style
		prefix := "•"
		switch ev.Level {
		case pipeline.LevelError:
			style = errorStyle
			prefix = "✗"
		case pipeline.LevelWarn:
			style = warningStyle
			prefix = "!"
		case pipeline.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + ev.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch {
	case !m.running():
		return "tab: next field • ctrl+l: load video info • ctrl+s: start • esc: quit"
	case m.snap.State.Running():
		return "esc: cancel"
	default:
		return "r: new split • q: quit"
	}
}

// Run starts the TUI application.
func Run(s *session.Session, settings *config.Settings) error {
	p := tea.NewProgram(NewModel(s, settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
