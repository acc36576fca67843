package i18n

import (
	"testing"
)

func TestChineseLocale(t *testing.T) {
	Init("zh-Hans")

	tests := []struct {
		id     string
		def    string
		wantZh string
	}{
		{"tui.timeline.title", "Timeline", "时间线"},
		{"tui.timeline.window", "Window", "窗口"},
		{"tui.timeline.selection", "Selection", "选区"},
		{"tui.help.zoom", "zoom", "缩放"},
		{"tui.help.quit", "quit", "退出"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := T(tt.id, tt.def)
			if got != tt.wantZh {
				t.Errorf("T(%q) = %q, want %q", tt.id, got, tt.wantZh)
			}
		})
	}
}

func TestLocaleSwitch(t *testing.T) {
	Init("en")
	if en := T("tui.timeline.bounds", "Bounds"); en != "Bounds" {
		t.Errorf("English bounds = %q, want %q", en, "Bounds")
	}

	Init("zh-Hans")
	if zh := T("tui.timeline.bounds", "Bounds"); zh != "范围" {
		t.Errorf("Chinese bounds = %q, want %q", zh, "范围")
	}

	Init("en")
	if en := T("tui.timeline.bounds", "Bounds"); en != "Bounds" {
		t.Errorf("English bounds after switch = %q, want %q", en, "Bounds")
	}
}

func TestUntranslatedKeyFallsBack(t *testing.T) {
	Init("zh-Hans")

	// tui.help.format only exists in en.toml.
	got := T("tui.help.format", "format")
	if got != "format" {
		t.Errorf("untranslated key = %q, want %q", got, "format")
	}
	got = T("some.untranslated.key", "English fallback")
	if got != "English fallback" {
		t.Errorf("unknown key = %q, want %q", got, "English fallback")
	}
}
