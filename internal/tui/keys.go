package tui

import "charm.land/bubbles/v2/key"

// timelineKeyMap defines key bindings for the timeline view
type timelineKeyMap struct {
	PanLeft  key.Binding
	PanRight key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Reset    key.Binding
	Center   key.Binding
	Up       key.Binding
	Down     key.Binding
	CursorL  key.Binding
	CursorR  key.Binding
	GoTo     key.Binding
	Format   key.Binding
	Quit     key.Binding
}

// defaultTimelineKeyMap returns the default key bindings for the timeline
func defaultTimelineKeyMap() timelineKeyMap {
	return timelineKeyMap{
		PanLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "pan left"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "pan right"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "=", "i"),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "o"),
			key.WithHelp("-", "zoom out"),
		),
		Reset: key.NewBinding(
			key.WithKeys("0", "r"),
			key.WithHelp("0", "reset"),
		),
		Center: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "center on entry"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous entry"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next entry"),
		),
		CursorL: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("H", "move cursor left"),
		),
		CursorR: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("L", "move cursor right"),
		),
		GoTo: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to time"),
		),
		Format: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle time format"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
