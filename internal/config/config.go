// Package config handles configuration loading and defaults for taskline.
// Configuration is loaded from XDG-compliant paths (typically
// ~/.config/taskline/config.yaml, or config.toml next to it).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"taskline/internal/fsutil"
)

// DefaultDataFile is used when no data_file is configured. Relative paths
// resolve against the working directory.
const DefaultDataFile = "todo.txt"

// Config represents the application configuration.
type Config struct {
	// DataFile is the task file. ".db", ".sqlite" and ".sqlite3" select the
	// SQLite backend.
	DataFile string `yaml:"data_file,omitempty" toml:"data_file,omitempty"`

	Theme ThemeConfig `yaml:"theme,omitempty" toml:"theme,omitempty"`
	Keys  KeysConfig  `yaml:"keys,omitempty" toml:"keys,omitempty"`
	UX    UXConfig    `yaml:"ux,omitempty" toml:"ux,omitempty"`
	Log   LogConfig   `yaml:"log,omitempty" toml:"log,omitempty"`
}

// ThemeConfig defines colors as hex strings ("#7C3AED") or ANSI numbers ("4").
type ThemeConfig struct {
	Primary  string `yaml:"primary,omitempty" toml:"primary,omitempty"`
	Muted    string `yaml:"muted,omitempty" toml:"muted,omitempty"`
	Text     string `yaml:"text,omitempty" toml:"text,omitempty"`
	Selected string `yaml:"selected,omitempty" toml:"selected,omitempty"` // highlighted row background

	// Tab colors, one per view.
	All    string `yaml:"all,omitempty" toml:"all,omitempty"`
	Done   string `yaml:"done,omitempty" toml:"done,omitempty"`
	Undone string `yaml:"undone,omitempty" toml:"undone,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	Quit    string `yaml:"quit,omitempty" toml:"quit,omitempty"`         // default: "q,ctrl+c"
	Add     string `yaml:"add,omitempty" toml:"add,omitempty"`           // default: "a"
	Delete  string `yaml:"delete,omitempty" toml:"delete,omitempty"`     // default: "d"
	Toggle  string `yaml:"toggle,omitempty" toml:"toggle,omitempty"`     // default: "x,space"
	NextTab string `yaml:"next_tab,omitempty" toml:"next_tab,omitempty"` // default: "l,right,tab"
	PrevTab string `yaml:"prev_tab,omitempty" toml:"prev_tab,omitempty"` // default: "h,left,shift+tab"
	Up      string `yaml:"up,omitempty" toml:"up,omitempty"`             // default: "k,up"
	Down    string `yaml:"down,omitempty" toml:"down,omitempty"`         // default: "j,down"
	Top     string `yaml:"top,omitempty" toml:"top,omitempty"`           // default: "g,home"
	Bottom  string `yaml:"bottom,omitempty" toml:"bottom,omitempty"`     // default: "G,end"
	Confirm string `yaml:"confirm,omitempty" toml:"confirm,omitempty"`   // default: "enter"
	Cancel  string `yaml:"cancel,omitempty" toml:"cancel,omitempty"`     // default: "esc"
	Help    string `yaml:"help,omitempty" toml:"help,omitempty"`         // default: "?"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// PersistToggles writes the data file after every toggle. Off keeps
	// toggles in memory until the next add or delete.
	PersistToggles bool `yaml:"persist_toggles,omitempty" toml:"persist_toggles,omitempty"` // default: false

	// ShowHelp shows the key help line under the list.
	ShowHelp bool `yaml:"show_help,omitempty" toml:"show_help,omitempty"` // default: true

	// DefaultFilter is the view shown at startup: all, done or undone.
	DefaultFilter string `yaml:"default_filter,omitempty" toml:"default_filter,omitempty"` // default: "all"
}

// LogConfig controls the debug log. The TUI owns the terminal, so logs only
// ever go to a file.
type LogConfig struct {
	File  string `yaml:"file,omitempty" toml:"file,omitempty"`   // empty disables logging
	Level string `yaml:"level,omitempty" toml:"level,omitempty"` // debug, info, warn, error
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataFile: DefaultDataFile,
		Theme: ThemeConfig{
			Primary:  "#7C3AED", // Violet
			Muted:    "#6B7280", // Gray
			Text:     "",        // Terminal default
			Selected: "#1D4ED8", // Blue
			All:      "#3B82F6", // Blue
			Done:     "#06B6D4", // Cyan
			Undone:   "#EF4444", // Red
		},
		UX: UXConfig{
			PersistToggles: false,
			ShowHelp:       true,
			DefaultFilter:  "all",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskline")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskline")
}

// Path returns the config file that Load reads: config.yaml, or config.toml
// when only that one exists. Empty when no home directory is known.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	yamlPath := filepath.Join(dir, "config.yaml")
	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(yamlPath); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat(tomlPath); err == nil {
			return tomlPath
		}
	}
	return yamlPath
}

// Load reads configuration from the default path, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	path := Path()
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from path. The format follows the extension:
// ".toml" is TOML, anything else YAML. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	var has func(path ...string) bool

	if isTOML(path) {
		if err := toml.Unmarshal(data, &userCfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err == nil {
			has = func(keys ...string) bool { return tomlHasPath(raw, keys...) }
		}
	} else {
		if err := yaml.Unmarshal(data, &userCfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Content) > 0 {
			has = func(keys ...string) bool { return yamlHasPath(&doc, keys...) }
		}
	}

	cfg.merge(&userCfg, has)
	return cfg, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// mergeNonEmpty applies non-empty strings from other to c. Booleans need
// presence information and are handled by merge.
func (c *Config) mergeNonEmpty(other *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&c.DataFile, other.DataFile)

	set(&c.Theme.Primary, other.Theme.Primary)
	set(&c.Theme.Muted, other.Theme.Muted)
	set(&c.Theme.Text, other.Theme.Text)
	set(&c.Theme.Selected, other.Theme.Selected)
	set(&c.Theme.All, other.Theme.All)
	set(&c.Theme.Done, other.Theme.Done)
	set(&c.Theme.Undone, other.Theme.Undone)

	set(&c.Keys.Quit, other.Keys.Quit)
	set(&c.Keys.Add, other.Keys.Add)
	set(&c.Keys.Delete, other.Keys.Delete)
	set(&c.Keys.Toggle, other.Keys.Toggle)
	set(&c.Keys.NextTab, other.Keys.NextTab)
	set(&c.Keys.PrevTab, other.Keys.PrevTab)
	set(&c.Keys.Up, other.Keys.Up)
	set(&c.Keys.Down, other.Keys.Down)
	set(&c.Keys.Top, other.Keys.Top)
	set(&c.Keys.Bottom, other.Keys.Bottom)
	set(&c.Keys.Confirm, other.Keys.Confirm)
	set(&c.Keys.Cancel, other.Keys.Cancel)
	set(&c.Keys.Help, other.Keys.Help)

	set(&c.UX.DefaultFilter, other.UX.DefaultFilter)

	set(&c.Log.File, other.Log.File)
	set(&c.Log.Level, other.Log.Level)
}

// merge applies other over c. has reports whether a key was present in the
// source document; when nil, booleans are only ever switched on.
func (c *Config) merge(other *Config, has func(path ...string) bool) {
	c.mergeNonEmpty(other)

	if has == nil {
		c.UX.PersistToggles = c.UX.PersistToggles || other.UX.PersistToggles
		c.UX.ShowHelp = c.UX.ShowHelp || other.UX.ShowHelp
		return
	}
	if has("ux", "persist_toggles") {
		c.UX.PersistToggles = other.UX.PersistToggles
	}
	if has("ux", "show_help") {
		c.UX.ShowHelp = other.UX.ShowHelp
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

func tomlHasPath(raw map[string]any, path ...string) bool {
	if len(path) == 0 {
		return false
	}
	var cur any = raw
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		if cur, ok = m[key]; !ok {
			return false
		}
	}
	return true
}

// Save writes the configuration to path, creating its directory. TOML or
// YAML is chosen by extension.
func (c *Config) Save(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		err = enc.Encode(c)
		data = buf.Bytes()
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataFile returns the data file path with a leading ~ expanded.
func (c *Config) GetDataFile() string {
	p := c.DataFile
	if p == "" {
		return DefaultDataFile
	}
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		trimmed := strings.TrimLeft(strings.TrimPrefix(p, "~"), `/\`)
		return filepath.Join(home, trimmed)
	}
	return p
}
