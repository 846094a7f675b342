package ui

import (
	"testing"

	"taskline/internal/config"
	"taskline/internal/storage"

	"github.com/charmbracelet/lipgloss"
)

func TestNewStyles_UsesThemeColors(t *testing.T) {
	theme := &config.ThemeConfig{
		Primary:  "#FF0000",
		Muted:    "#0000FF",
		Text:     "#FFFFFF",
		Selected: "#123456",
		Done:     "6",
	}

	styles := NewStylesFromTheme(theme)

	if styles.ColorPrimary != lipgloss.Color("#FF0000") {
		t.Errorf("ColorPrimary = %v, want #FF0000", styles.ColorPrimary)
	}
	if styles.ColorMuted != lipgloss.Color("#0000FF") {
		t.Errorf("ColorMuted = %v, want #0000FF", styles.ColorMuted)
	}
	if styles.ColorText != lipgloss.Color("#FFFFFF") {
		t.Errorf("ColorText = %v, want #FFFFFF", styles.ColorText)
	}
	if styles.ColorSelected != lipgloss.Color("#123456") {
		t.Errorf("ColorSelected = %v, want #123456", styles.ColorSelected)
	}
	if got := styles.TabColors[storage.FilterDone]; got != lipgloss.Color("6") {
		t.Errorf("TabColors[Done] = %v, want 6", got)
	}
}

func TestNewStyles_UsesDefaults(t *testing.T) {
	styles := NewStylesFromTheme(&config.ThemeConfig{})

	if styles.ColorPrimary != lipgloss.Color("#7C3AED") {
		t.Errorf("ColorPrimary = %v, want default #7C3AED", styles.ColorPrimary)
	}
	want := map[storage.Filter]lipgloss.Color{
		storage.FilterAll:    "#3B82F6",
		storage.FilterDone:   "#06B6D4",
		storage.FilterUndone: "#EF4444",
	}
	for f, c := range want {
		if got := styles.TabColors[f]; got != c {
			t.Errorf("TabColors[%v] = %v, want %v", f, got, c)
		}
	}
}

func TestNewStyles_FromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Undone = "#000001"

	styles := NewStyles(cfg)
	if got := styles.TabColors[storage.FilterUndone]; got != lipgloss.Color("#000001") {
		t.Errorf("TabColors[Undone] = %v, want #000001", got)
	}
}
