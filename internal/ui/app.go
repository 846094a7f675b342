// Package ui provides the terminal user interface for taskline.
// The Model adapts a session.Session to the Bubble Tea architecture: key
// messages are classified into session actions and View draws the session
// snapshot.
package ui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"taskline/internal/config"
	"taskline/internal/session"
	"taskline/internal/storage"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys     *config.KeysConfig
	ShowHelp bool
}

// TerminalInitError reports that the terminal could not be set up for the
// interactive session.
type TerminalInitError struct {
	Err error
}

func (e *TerminalInitError) Error() string {
	return "terminal init: " + e.Err.Error()
}

func (e *TerminalInitError) Unwrap() error { return e.Err }

var errNotTerminal = errors.New("stdin and stdout must be a terminal")

// Model is the Bubble Tea model of the task list.
type Model struct {
	session   *session.Session
	styles    *Styles
	keys      ListKeyMap
	inputKeys InputKeyMap
	input     textinput.Model
	help      help.Model
	showHelp  bool
	width     int
	height    int
	status    string
	statusErr bool
	err       error
}

// NewModel creates the model for sess.
func NewModel(sess *session.Session, styles *Styles, cfg *AppConfig) *Model {
	if cfg == nil {
		cfg = &AppConfig{Keys: &config.KeysConfig{}, ShowHelp: true}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200
	ti.Width = tableWidth

	m := &Model{
		session:   sess,
		styles:    styles,
		keys:      NewListKeyMap(cfg.Keys),
		inputKeys: NewInputKeyMap(cfg.Keys),
		input:     ti,
		help:      help.New(),
		showHelp:  cfg.ShowHelp,
	}
	if err := sess.LoadErr(); err != nil {
		m.setLoadStatus(err)
	}
	return m
}

// setLoadStatus describes a non-fatal load problem on the status line.
func (m *Model) setLoadStatus(err error) {
	path := m.session.Store().Path()
	if recs := storage.RecordErrors(err); len(recs) > 0 {
		m.SetStatus(fmt.Sprintf("Skipped %d malformed line(s) in %s (first: line %d)", len(recs), path, recs[0].Line), true)
		return
	}
	if errors.Is(err, fs.ErrNotExist) {
		m.SetStatus("New list: "+path, false)
		return
	}
	m.SetStatus(err.Error(), true)
}

// SetStatus sets a status message shown until the next action.
func (m *Model) SetStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// Err returns the fatal error that ended the session, if any.
func (m *Model) Err() error { return m.err }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.session.State() == session.AwaitingTextInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	// Cursor blink and other editor messages.
	if m.session.State() == session.AwaitingTextInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == session.None {
		return m, nil
	}

	m.SetStatus("", false)
	if err := m.session.Apply(action); err != nil {
		return m.fail(err)
	}

	switch m.session.State() {
	case session.Terminated:
		return m, tea.Quit
	case session.AwaitingTextInput:
		m.input.Reset()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.inputKeys.Abort):
		m.input.Blur()
		// Quit never persists, so it cannot fail.
		_ = m.session.Apply(session.Quit)
		return m, tea.Quit

	case key.Matches(msg, m.inputKeys.Confirm):
		text := m.input.Value()
		m.input.Blur()
		m.input.Reset()
		if err := m.session.Submit(text); err != nil {
			return m.fail(err)
		}
		m.SetStatus("Added: "+truncateDescription(text), false)
		return m, nil

	case key.Matches(msg, m.inputKeys.Cancel):
		m.input.Blur()
		m.input.Reset()
		m.session.Cancel()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// fail records a fatal error and ends the program.
func (m *Model) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.SetStatus(err.Error(), true)
	return m, tea.Quit
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.session.State() == session.Terminated {
		return ""
	}

	snap := m.session.Snapshot()

	var bottom strings.Builder
	if snap.State == session.AwaitingTextInput {
		bottom.WriteString("\n")
		bottom.WriteString(m.styles.InputPromptStyle.Render(">> "))
		bottom.WriteString(m.input.View())
		bottom.WriteString("\n")
	}
	bottom.WriteString("\n")
	bottom.WriteString(m.renderStatus(snap))
	if m.showHelp {
		bottom.WriteString("\n")
		if snap.State == session.AwaitingTextInput {
			bottom.WriteString(m.help.View(m.inputKeys))
		} else {
			bottom.WriteString(m.help.View(m.keys))
		}
	}
	bottom.WriteString("\n")

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(renderTabs(m.styles, snap.Filter))
	b.WriteString("\n\n")
	b.WriteString(renderTable(m.styles, snap, m.keys.Add.Help().Key, m.maxRows(bottom.String())))
	b.WriteString(bottom.String())
	return b.String()
}

// topLines counts the blank line, the tabs and the gap above the table.
const topLines = 3

// maxRows is how many task rows fit once the tabs, the table header and
// footer are drawn. Zero means the height is not known yet.
func (m *Model) maxRows(footer string) int {
	if m.height <= 0 {
		return 0
	}
	// The frame ends in a newline, which leaves one empty line at the bottom.
	rows := m.height - 1 - topLines - tableChromeLines - strings.Count(footer, "\n")
	return max(rows, 1)
}

func (m *Model) renderStatus(snap session.Snapshot) string {
	if m.status != "" {
		if m.statusErr {
			return m.styles.ErrorStyle.Render(m.status)
		}
		return m.styles.StatusStyle.Render(m.status)
	}
	total := snap.Counts[storage.FilterAll]
	done := snap.Counts[storage.FilterDone]
	return m.styles.HelpStyle.Render(fmt.Sprintf("%d/%d done", done, total))
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Run starts the Bubble Tea program on the alternate screen and blocks until
// the session ends. It returns a *TerminalInitError when the terminal cannot
// be used, and the session's fatal error, if one ended it.
func Run(sess *session.Session, styles *Styles, cfg *AppConfig) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return &TerminalInitError{Err: errNotTerminal}
	}

	m := NewModel(sess, styles, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return &TerminalInitError{Err: err}
	}
	if fm, ok := final.(*Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
