package ui

import (
	"strings"

	"taskline/internal/config"
	"taskline/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "space" {
			trimmed = " "
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	return result
}

// helpKey renders the first binding of a list the way the help line shows it.
func helpKey(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	if keys[0] == " " {
		return "space"
	}
	return keys[0]
}

func newBinding(keys []string, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey(keys), desc),
	)
}

// ListKeyMap holds the bindings active while browsing the list.
type ListKeyMap struct {
	Quit    key.Binding
	Add     key.Binding
	Delete  key.Binding
	Toggle  key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Help    key.Binding
}

// DefaultListKeyMap returns the default list key bindings.
func DefaultListKeyMap() ListKeyMap {
	return NewListKeyMap(&config.KeysConfig{})
}

// NewListKeyMap creates list key bindings from config.
func NewListKeyMap(cfg *config.KeysConfig) ListKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return ListKeyMap{
		Quit:    newBinding(parseKeys(cfg.Quit, "q", "ctrl+c"), "quit"),
		Add:     newBinding(parseKeys(cfg.Add, "a"), "add"),
		Delete:  newBinding(parseKeys(cfg.Delete, "d"), "delete"),
		Toggle:  newBinding(parseKeys(cfg.Toggle, "x", " "), "toggle"),
		NextTab: newBinding(parseKeys(cfg.NextTab, "l", "right", "tab"), "next view"),
		PrevTab: newBinding(parseKeys(cfg.PrevTab, "h", "left", "shift+tab"), "prev view"),
		Up:      newBinding(parseKeys(cfg.Up, "k", "up"), "up"),
		Down:    newBinding(parseKeys(cfg.Down, "j", "down"), "down"),
		Top:     newBinding(parseKeys(cfg.Top, "g", "home"), "top"),
		Bottom:  newBinding(parseKeys(cfg.Bottom, "G", "end"), "bottom"),
		Help:    newBinding(parseKeys(cfg.Help, "?"), "more keys"),
	}
}

// Action classifies a key press. Unbound keys yield session.None.
// Bindings are checked in declaration order, so the first match wins when a
// key is bound twice.
func (k ListKeyMap) Action(msg tea.KeyMsg) session.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return session.Quit
	case key.Matches(msg, k.Add):
		return session.BeginAdd
	case key.Matches(msg, k.Delete):
		return session.Delete
	case key.Matches(msg, k.Toggle):
		return session.Toggle
	case key.Matches(msg, k.NextTab):
		return session.NextTab
	case key.Matches(msg, k.PrevTab):
		return session.PrevTab
	case key.Matches(msg, k.Up):
		return session.Up
	case key.Matches(msg, k.Down):
		return session.Down
	case key.Matches(msg, k.Top):
		return session.Top
	case key.Matches(msg, k.Bottom):
		return session.Bottom
	}
	return session.None
}

// ShortHelp implements help.KeyMap.
func (k ListKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.NextTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k ListKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Toggle, k.Delete},
		{k.NextTab, k.PrevTab},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Help, k.Quit},
	}
}

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
	Abort   key.Binding
}

// DefaultInputKeyMap returns the default input key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}

// NewInputKeyMap creates input key bindings from config. Abort is fixed to
// ctrl+c since every printable key belongs to the line editor.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: newBinding(parseKeys(cfg.Confirm, "enter"), "add task"),
		Cancel:  newBinding(parseKeys(cfg.Cancel, "esc"), "cancel"),
		Abort:   newBinding([]string{"ctrl+c"}, "quit"),
	}
}

// ShortHelp implements help.KeyMap.
func (k InputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel, k.Abort}
}

// FullHelp implements help.KeyMap.
func (k InputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
