package tuilog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_WritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)

	l.Info("window changed", "start", 10, "end", 20)

	got := buf.String()
	if !strings.Contains(got, "[INFO] window changed start=10 end=20") {
		t.Errorf("unexpected log line: %q", got)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")

	got := buf.String()
	if strings.Contains(got, "dropped") {
		t.Errorf("messages below level were written: %q", got)
	}
	if !strings.Contains(got, "[WARN] kept") {
		t.Errorf("warning missing: %q", got)
	}
}

func TestLogger_OddKeyvals(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)

	l.Error("odd", "key")

	if !strings.Contains(buf.String(), "key=<missing>") {
		t.Errorf("dangling key not reported: %q", buf.String())
	}
}

func TestLogger_DisabledWritesNothing(t *testing.T) {
	l := &Logger{}
	l.Info("nothing")
	if l.Enabled() {
		t.Error("zero logger should be disabled")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", LevelDebug, false},
		{"debug", LevelDebug, false},
		{"Info", LevelInfo, false},
		{" WARN ", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelDebug, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
