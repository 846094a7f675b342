package ui

import (
	"os"
	"path/filepath"
	"testing"

	"taskline/internal/config"
	"taskline/internal/session"
	"taskline/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest prepares the test environment for deterministic rendering.
// It disables colors so rendered frames can be compared as plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestSession writes content to a data file in a temp dir and starts a
// session on it.
func createTestSession(t *testing.T, content string) (*session.Session, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo.txt")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write data file: %v", err)
	}
	store := storage.New(path)
	t.Cleanup(func() { store.Close() })

	sess, err := session.New(store, path)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	return sess, path
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// createTestModel builds a model over content with default keys and help on.
func createTestModel(t *testing.T, content string) (*Model, string) {
	t.Helper()
	setupTest(t)
	sess, path := createTestSession(t, content)
	return NewModel(sess, createTestStyles(), nil), path
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys in order and returns the command of the last one.
func press(m *Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

// isQuit reports whether cmd is tea.Quit.
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
