package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wethinkt/go-timegraph/internal/config"
)

func useTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvPath, "")
	return home
}

func TestEmbeddedThemesLoad(t *testing.T) {
	names := ListEmbedded()
	if len(names) < 2 {
		t.Fatalf("ListEmbedded() = %v, want dark and light", names)
	}
	for _, name := range names {
		th, err := LoadEmbedded(name)
		if err != nil {
			t.Errorf("LoadEmbedded(%q) error = %v", name, err)
			continue
		}
		if th.Name != name {
			t.Errorf("theme %q has name %q", name, th.Name)
		}
		if th.Accent == "" || th.Bar.Fg == "" || th.Selection.Bg == "" {
			t.Errorf("theme %q is missing colors: %+v", name, th)
		}
	}
}

func TestLoadByName_UserThemeOverridesDefaults(t *testing.T) {
	home := useTempHome(t)
	dir := filepath.Join(home, ".timegraph", "themes")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	data := "description = \"mine\"\naccent = \"#123456\"\n"
	if err := os.WriteFile(filepath.Join(dir, "mine.toml"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadByName("mine")
	if err != nil {
		t.Fatalf("LoadByName() error = %v", err)
	}
	if th.Accent != "#123456" {
		t.Errorf("Accent = %q", th.Accent)
	}
	if th.Bar.Fg != DefaultTheme().Bar.Fg {
		t.Errorf("missing field did not fall back to default: %q", th.Bar.Fg)
	}

	var found bool
	for _, m := range ListAvailable() {
		if m.Name == "mine" {
			found = true
			if m.Embedded || m.Description != "mine" {
				t.Errorf("meta = %+v", m)
			}
		}
	}
	if !found {
		t.Error("user theme not listed")
	}
}

func TestLoadByName_Unknown(t *testing.T) {
	useTempHome(t)
	if _, err := LoadByName("no-such-theme"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestSetActive(t *testing.T) {
	useTempHome(t)
	if err := SetActive("light"); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "light" {
		t.Errorf("config theme = %q", cfg.Theme)
	}
	if Current().Name != "light" {
		t.Errorf("Current() = %q", Current().Name)
	}
	if err := SetActive("no-such-theme"); err == nil {
		t.Error("SetActive() should reject unknown themes")
	}
}
