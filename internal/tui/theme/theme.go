// Package theme provides theming support for the TUI.
package theme

import (
	"embed"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/wethinkt/go-timegraph/internal/config"
)

//go:embed themes/*.toml
var embeddedThemes embed.FS

// DefaultName is the theme used when none is configured.
const DefaultName = "dark"

// Style defines colors and text attributes for a UI element.
type Style struct {
	Fg        string `toml:"fg,omitempty"`
	Bg        string `toml:"bg,omitempty"`
	Bold      bool   `toml:"bold,omitempty"`
	Underline bool   `toml:"underline,omitempty"`
}

// Theme defines all styles used in the TUI.
type Theme struct {
	Name        string `toml:"name,omitempty"`
	Description string `toml:"description,omitempty"`

	Accent string `toml:"accent,omitempty"` // titles and the scrollbar thumb
	Border string `toml:"border,omitempty"`

	Text  Style `toml:"text,omitempty"`
	Muted Style `toml:"muted,omitempty"`
	Axis  Style `toml:"axis,omitempty"`

	// Timeline rows
	Bar         Style `toml:"bar,omitempty"`
	BarSelected Style `toml:"bar_selected,omitempty"`
	Selection   Style `toml:"selection,omitempty"`
	Cursor      Style `toml:"cursor,omitempty"`
}

// Meta holds metadata about an available theme.
type Meta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path,omitempty"` // empty for embedded
	Embedded    bool   `json:"embedded"`
}

// DefaultTheme returns the embedded dark theme.
func DefaultTheme() Theme {
	t, _ := LoadEmbedded(DefaultName)
	return t
}

// LoadEmbedded loads a theme from the embedded themes.
func LoadEmbedded(name string) (Theme, error) {
	data, err := embeddedThemes.ReadFile("themes/" + name + ".toml")
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// ListEmbedded returns the names of all embedded themes.
func ListEmbedded() []string {
	entries, err := embeddedThemes.ReadDir("themes")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
		}
	}
	return names
}

// Dir returns the user themes directory.
func Dir() (string, error) {
	configDir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "themes"), nil
}

// ListAvailable returns the embedded themes followed by user themes from
// the themes directory. A user theme shadows an embedded one of the same
// name.
func ListAvailable() []Meta {
	byName := make(map[string]Meta)
	for _, name := range ListEmbedded() {
		t, err := LoadEmbedded(name)
		if err != nil {
			continue
		}
		byName[name] = Meta{Name: name, Description: t.Description, Embedded: true}
	}

	if dir, err := Dir(); err == nil {
		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ".toml")
			path := filepath.Join(dir, e.Name())
			meta := Meta{Name: name, Description: "User theme", Path: path}
			var t Theme
			if _, err := toml.DecodeFile(path, &t); err == nil && t.Description != "" {
				meta.Description = t.Description
			}
			byName[name] = meta
		}
	}

	out := make([]Meta, 0, len(byName))
	for _, m := range byName {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadByName loads a theme by name, checking user themes first, then
// embedded ones. Fields missing from a user theme keep the default
// theme's values.
func LoadByName(name string) (Theme, error) {
	if name == "" {
		name = DefaultName
	}
	if dir, err := Dir(); err == nil {
		path := filepath.Join(dir, name+".toml")
		if data, err := os.ReadFile(path); err == nil {
			t := DefaultTheme()
			if _, err := toml.Decode(string(data), &t); err != nil {
				return Theme{}, err
			}
			t.Name = name
			return t, nil
		}
	}
	return LoadEmbedded(name)
}

var (
	mu      sync.Mutex
	current *Theme
)

// Current returns the active theme, loading the configured one on first
// use. Any failure falls back to the default theme.
func Current() Theme {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		t := DefaultTheme()
		if cfg, err := config.Load(); err == nil {
			if loaded, err := LoadByName(cfg.Theme); err == nil {
				t = loaded
			}
		}
		current = &t
	}
	return *current
}

// Use makes t the active theme for this process.
func Use(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	current = &t
}

// SetActive verifies that the named theme loads and records it in the
// config file.
func SetActive(name string) error {
	t, err := LoadByName(name)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Theme = name
	if err := config.Save(cfg); err != nil {
		return err
	}
	Use(t)
	return nil
}
