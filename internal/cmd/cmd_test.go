package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wethinkt/go-timegraph/internal/config"
	"github.com/wethinkt/go-timegraph/internal/i18n"
	"github.com/wethinkt/go-timegraph/internal/version"
)

const sampleForest = `{"id":"cpu0","name":"CPU 0","start":1000,"end":5000}
{"id":"irq","parent":"cpu0","start":2000,"end":2500}
# comment lines are skipped
{"id":"group","name":"Idle"}
not json
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvPath, "")
	t.Setenv(i18n.EnvLang, "en")

	outputJSON, versionJSON, inspectFormat = false, false, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeForest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	if err := os.WriteFile(path, []byte(sampleForest), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspect_JSON(t *testing.T) {
	path := writeForest(t)
	out, err := runCLI(t, "inspect", "--json", path)
	if err != nil {
		t.Fatalf("inspect error = %v\n%s", err, out)
	}

	var r inspectReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if r.Entries != 3 {
		t.Errorf("Entries = %d, want 3", r.Entries)
	}
	if r.Bounds == nil || r.Bounds.Min != 1000 || r.Bounds.Max != 5000 {
		t.Errorf("Bounds = %+v", r.Bounds)
	}
	if len(r.Errors) != 1 || !strings.Contains(r.Errors[0], "line 5") {
		t.Errorf("Errors = %v", r.Errors)
	}
	if len(r.Roots) != 2 || len(r.Roots[0].Children) != 1 || r.Roots[0].Children[0].ID != "irq" {
		t.Errorf("Roots = %+v", r.Roots)
	}
	if r.Roots[1].Start != nil {
		t.Errorf("grouping entry has a start time: %+v", r.Roots[1])
	}
}

func TestInspect_Text(t *testing.T) {
	path := writeForest(t)
	out, err := runCLI(t, "inspect", "--format", "cycles", path)
	if err != nil {
		t.Fatalf("inspect error = %v\n%s", err, out)
	}
	for _, want := range []string{"Entries:", "Problems:", "CPU 0", "  irq", "Idle", "4 µs"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestInspect_Errors(t *testing.T) {
	if _, err := runCLI(t, "inspect", filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Error("expected error for a missing file")
	}
	path := writeForest(t)
	if _, err := runCLI(t, "inspect", "--format", "sundial", path); err == nil {
		t.Error("expected error for an unknown format")
	}
}

func TestVersion_JSON(t *testing.T) {
	out, err := runCLI(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var info version.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if info.Name != "timegraph" || info.Version == "" {
		t.Errorf("info = %+v", info)
	}
}

func TestSyncStatus_NoRelays(t *testing.T) {
	out, err := runCLI(t, "sync", "status")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No sync relay running") {
		t.Errorf("output = %q", out)
	}

	out, err = runCLI(t, "sync", "status", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("JSON output = %q", out)
	}
}

func TestThemeList(t *testing.T) {
	out, err := runCLI(t, "theme", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "* dark") || !strings.Contains(out, "light") {
		t.Errorf("output = %q", out)
	}
}

func TestLanguage(t *testing.T) {
	out, err := runCLI(t, "language")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Current language: en") || !strings.Contains(out, "zh-Hans") {
		t.Errorf("output = %q", out)
	}
}
