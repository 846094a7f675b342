package ui

import (
	"taskline/internal/config"
	"taskline/internal/storage"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all application styles, initialized with theme configuration.
type Styles struct {
	// Colors
	ColorPrimary  lipgloss.Color
	ColorMuted    lipgloss.Color
	ColorText     lipgloss.Color
	ColorSelected lipgloss.Color
	ColorDanger   lipgloss.Color
	ColorSuccess  lipgloss.Color

	// Tab colors, one per filter.
	TabColors map[storage.Filter]lipgloss.Color

	TabInactiveStyle lipgloss.Style
	HeaderStyle      lipgloss.Style
	RowStyle         lipgloss.Style
	RowSelectedStyle lipgloss.Style
	EmptyStyle       lipgloss.Style

	InputPromptStyle lipgloss.Style

	HelpStyle   lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
}

// NewStyles creates a new Styles instance from the given config.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme creates a new Styles instance from a ThemeConfig.
// If a theme color is empty, it uses the appropriate default.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{}

	s.ColorPrimary = colorOrDefault(theme.Primary, "#7C3AED")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")
	s.ColorText = colorOrDefault(theme.Text, "#F9FAFB")
	s.ColorSelected = colorOrDefault(theme.Selected, "#1D4ED8")

	// Fixed semantic colors (not configurable from theme)
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorSuccess = lipgloss.Color("#10B981")

	s.TabColors = map[storage.Filter]lipgloss.Color{
		storage.FilterAll:    colorOrDefault(theme.All, "#3B82F6"),
		storage.FilterDone:   colorOrDefault(theme.Done, "#06B6D4"),
		storage.FilterUndone: colorOrDefault(theme.Undone, "#EF4444"),
	}

	s.initComponentStyles()
	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

func (s *Styles) initComponentStyles() {
	s.TabInactiveStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted)

	s.HeaderStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)

	s.RowStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.RowSelectedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(s.ColorSelected)

	s.EmptyStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted).
		Italic(true)

	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)
}

// TabStyle returns the style of the active tab for f.
func (s *Styles) TabStyle(f storage.Filter) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TabColors[f]).
		Bold(true)
}
