// Package i18n translates the labels of the timeline view.
//
// Usage:
//
//	i18n.Init("en")                                                         // at startup
//	i18n.T("tui.timeline.window", "Window")                                 // simple string
//	i18n.Tf("tui.timeline.reloaded", "Reloaded %d entries", n)              // with fmt args
//	i18n.Tn("tui.timeline.entries", "{{.Count}} entry", "{{.Count}} entries", n) // plural
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	mu        sync.RWMutex
)

// Init initializes the i18n system with the given language tag.
// Falls back to English if the language is not available.
// Safe to call multiple times (e.g., after config reload).
func Init(lang string) {
	mu.Lock()
	defer mu.Unlock()

	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, _ := localeFS.ReadDir("locales")
	for _, e := range entries {
		_, _ = bundle.LoadMessageFileFS(localeFS, "locales/"+e.Name())
	}

	localizer = i18n.NewLocalizer(bundle, lang, "en")
}

// Languages returns the tags of the embedded locales, English first.
func Languages() []string {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		return []string{"en"}
	}
	tags := b.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}

// T returns the localized string for the given message ID.
// The defaultMsg is used as the English fallback and is what
// goi18n extract picks up from source code.
func T(id string, defaultMsg string) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	if l == nil {
		return defaultMsg
	}

	s, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			Other: defaultMsg,
		},
	})
	if err != nil {
		return defaultMsg
	}
	return s
}

// Tf returns the localized string with fmt.Sprintf-style formatting.
// Use for strings with %d, %s, etc. placeholders.
func Tf(id string, defaultMsg string, args ...any) string {
	return fmt.Sprintf(T(id, defaultMsg), args...)
}

// Tn returns the localized string with pluralization.
// one/other use go template syntax with {{.Count}}.
func Tn(id string, one string, other string, count int) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	if l == nil {
		return fillCount(one, other, count)
	}

	s, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			One:   one,
			Other: other,
		},
		PluralCount:  count,
		TemplateData: map[string]int{"Count": count},
	})
	if err != nil {
		return fillCount(one, other, count)
	}
	return s
}

// fillCount renders the English plural forms without the bundle.
func fillCount(one, other string, count int) string {
	msg := other
	if count == 1 {
		msg = one
	}
	return strings.ReplaceAll(msg, "{{.Count}}", strconv.Itoa(count))
}

// EnvLang overrides the configured display language.
const EnvLang = "TIMEGRAPH_LANG"

// ResolveLocale determines the active locale from env/config.
// Priority: TIMEGRAPH_LANG > configLang > LC_ALL > LANG > "en"
func ResolveLocale(configLang string) string {
	if v := os.Getenv(EnvLang); v != "" {
		return v
	}
	if configLang != "" {
		return configLang
	}
	if v := os.Getenv("LC_ALL"); v != "" {
		return normalizeLocale(v)
	}
	if v := os.Getenv("LANG"); v != "" {
		return normalizeLocale(v)
	}
	return "en"
}

// normalizeLocale converts a POSIX locale to a BCP 47 tag, e.g.
// "zh_CN.UTF-8" -> "zh-CN". The C and POSIX locales map to English.
func normalizeLocale(posix string) string {
	posix, _, _ = strings.Cut(posix, ".")
	posix, _, _ = strings.Cut(posix, "@")
	if posix == "C" || posix == "POSIX" || posix == "" {
		return "en"
	}
	tag, err := language.Parse(strings.ReplaceAll(posix, "_", "-"))
	if err != nil {
		return "en"
	}
	return tag.String()
}
