package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/wethinkt/go-timegraph/internal/tui/theme"
)

// Styles holds the computed lipgloss styles for the timeline.
type Styles struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Muted     lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Border    lipgloss.Style
	Axis      lipgloss.Style
	Thumb     lipgloss.Style
	Track     lipgloss.Style
	Name      lipgloss.Style
	NameSel   lipgloss.Style
	Bar       lipgloss.Style
	BarSel    lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style
}

// applyStyle applies a theme.Style to a lipgloss.Style builder.
func applyStyle(s lipgloss.Style, ts theme.Style) lipgloss.Style {
	if ts.Fg != "" {
		s = s.Foreground(lipgloss.Color(ts.Fg))
	}
	if ts.Bg != "" {
		s = s.Background(lipgloss.Color(ts.Bg))
	}
	if ts.Bold {
		s = s.Bold(true)
	}
	if ts.Underline {
		s = s.Underline(true)
	}
	return s
}

// buildStyles creates Styles from a Theme.
func buildStyles(t theme.Theme) Styles {
	accent := lipgloss.Color(t.Accent)
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Label:  applyStyle(lipgloss.NewStyle(), t.Muted),
		Value:  applyStyle(lipgloss.NewStyle(), t.Text),
		Muted:  applyStyle(lipgloss.NewStyle(), t.Muted),
		Status: applyStyle(lipgloss.NewStyle(), t.Muted).Italic(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)),
		Axis:      applyStyle(lipgloss.NewStyle(), t.Axis),
		Thumb:     lipgloss.NewStyle().Foreground(accent),
		Track:     applyStyle(lipgloss.NewStyle(), t.Muted),
		Name:      applyStyle(lipgloss.NewStyle(), t.Text),
		NameSel:   applyStyle(lipgloss.NewStyle(), t.BarSelected),
		Bar:       applyStyle(lipgloss.NewStyle(), t.Bar),
		BarSel:    applyStyle(lipgloss.NewStyle(), t.BarSelected),
		Selection: applyStyle(lipgloss.NewStyle(), t.Selection),
		Cursor:    applyStyle(lipgloss.NewStyle(), t.Cursor),
	}
}
