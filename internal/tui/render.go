package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wethinkt/go-timegraph/internal/i18n"
	"github.com/wethinkt/go-timegraph/internal/timegraph"
)

// Screen layout: title, info, selection and axis lines above the rows;
// scrubber, status and help below.
const (
	headerLines = 4
	footerLines = 3
)

func (m TimelineModel) nameWidth() int {
	return min(max(m.width/4, 8), 28)
}

// barOffset is the screen column where the time area starts.
func (m TimelineModel) barOffset() int {
	return m.nameWidth() + 1
}

func (m TimelineModel) barWidth() int {
	return max(m.width-m.barOffset(), 0)
}

func (m TimelineModel) visibleRows() int {
	return max(m.height-headerLines-footerLines, 0)
}

// rowOffset is the first row on screen; it scrolls just enough to keep
// the selected entry visible.
func (m TimelineModel) rowOffset() int {
	idx, vis := m.selectedRow(), m.visibleRows()
	if vis > 0 && idx >= vis {
		return idx - vis + 1
	}
	return 0
}

func (m TimelineModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m TimelineModel) render() string {
	if m.width == 0 {
		return ""
	}
	lines := []string{m.renderTitle()}

	if !m.ctrl.Bounds().Defined() || len(m.data.rows) == 0 {
		lines = append(lines, "", m.styles.Muted.Render(i18n.T("tui.timeline.empty", "No entries loaded")))
		lines = append(lines, m.renderStatus(), m.renderHelp())
		return m.fit(lines)
	}

	lines = append(lines, m.renderInfo(), m.renderSelection(), m.renderAxis())
	offset := m.rowOffset()
	sel := m.selectedRow()
	for i := offset; i < len(m.data.rows) && i < offset+m.visibleRows(); i++ {
		lines = append(lines, m.renderRow(m.data.rows[i], i == sel))
	}
	for len(lines) < m.height-footerLines {
		lines = append(lines, "")
	}
	lines = append(lines, m.renderScrubber(), m.renderStatus(), m.renderHelp())
	return m.fit(lines)
}

// fit truncates every line to the terminal width.
func (m TimelineModel) fit(lines []string) string {
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, m.width, "…")
	}
	return strings.Join(lines, "\n")
}

func (m TimelineModel) renderTitle() string {
	s := m.styles
	parts := []string{s.Title.Render(i18n.T("tui.timeline.title", "Timeline"))}
	if m.data.path != "" {
		parts = append(parts, s.Value.Render(m.data.path))
	}
	n := m.data.forest.Len()
	parts = append(parts, s.Muted.Render(i18n.Tn("tui.timeline.entries", "{{.Count}} entry", "{{.Count}} entries", n)))
	if m.synced {
		parts = append(parts, s.Thumb.Render("● "+i18n.T("tui.timeline.synced", "synced")))
	}
	return strings.Join(parts, "  ")
}

func (m TimelineModel) field(label, value string) string {
	return m.styles.Label.Render(label+" ") + m.styles.Value.Render(value)
}

func (m TimelineModel) timeRange(a, b int64) string {
	return m.ctrl.FormatTime(a) + " – " + m.ctrl.FormatTime(b)
}

func (m TimelineModel) renderInfo() string {
	b, w := m.ctrl.Bounds(), m.ctrl.Window()
	return strings.Join([]string{
		m.field(i18n.T("tui.timeline.bounds", "Bounds"), m.timeRange(b.Min, b.Max)),
		m.field(i18n.T("tui.timeline.window", "Window"), m.timeRange(w.Start, w.End)),
		m.field(i18n.T("tui.timeline.span", "Span"), i18n.FormatSpan(timegraph.Span(w.Start, w.End))),
		m.field(i18n.T("tui.timeline.format", "Format"), m.ctrl.TimeFormat().String()),
	}, "   ")
}

func (m TimelineModel) renderSelection() string {
	sel := m.ctrl.Selection()
	var parts []string
	switch {
	case sel.Begin == timegraph.Unset:
	case sel.Instant():
		parts = append(parts, m.field(i18n.T("tui.timeline.cursor", "Cursor"), m.ctrl.FormatTime(sel.Begin)))
	default:
		parts = append(parts, m.field(i18n.T("tui.timeline.selection", "Selection"), m.timeRange(sel.Begin, sel.End)))
	}
	if n, ok := m.ctrl.SelectedEntry().(*timegraph.Node); ok && n != nil {
		parts = append(parts, m.styles.NameSel.Render("▸ "+n.Name))
	}
	return strings.Join(parts, "   ")
}

// renderAxis labels the start, middle and end of the window.
func (m TimelineModel) renderAxis() string {
	w := m.ctrl.Window()
	width := m.barWidth()
	left := m.ctrl.FormatTime(w.Start)
	right := m.ctrl.FormatTime(w.End)
	mid := m.ctrl.FormatTime(w.Mid())

	line := left
	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap >= ansi.StringWidth(mid)+4 {
		lpad := width/2 - ansi.StringWidth(left) - ansi.StringWidth(mid)/2
		if lpad >= 2 {
			line += strings.Repeat(" ", lpad) + mid
			gap = width - ansi.StringWidth(line) - ansi.StringWidth(right)
		}
	}
	if gap > 0 {
		line += strings.Repeat(" ", gap) + right
	}
	return strings.Repeat(" ", m.nameWidth()) + m.styles.Muted.Render("│") + m.styles.Axis.Render(line)
}

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellBar
	cellSelection
	cellCursor
)

func (m TimelineModel) renderRow(n *timegraph.Node, selected bool) string {
	s := m.styles
	nw := m.nameWidth()
	name := ansi.Truncate(strings.Repeat("  ", n.Depth())+n.Name, nw, "…")
	name += strings.Repeat(" ", max(nw-ansi.StringWidth(name), 0))
	if selected {
		name = s.NameSel.Render(name)
	} else {
		name = s.Name.Render(name)
	}
	return name + s.Muted.Render("│") + m.renderBar(n, selected)
}

// renderBar draws the entry's extent and the time selection across the
// time area.
func (m TimelineModel) renderBar(n *timegraph.Node, selected bool) string {
	width := m.barWidth()
	if width == 0 {
		return ""
	}
	w := m.ctrl.Window()
	clampX := func(t int64) int { return min(max(m.ctrl.TimeToX(t), 0), width-1) }

	glyphs := make([]rune, width)
	kinds := make([]cellKind, width)
	for i := range glyphs {
		glyphs[i] = ' '
	}
	if n.Events && n.Start <= w.End && n.End >= w.Start {
		for x := clampX(n.Start); x <= clampX(n.End); x++ {
			glyphs[x] = '━'
			kinds[x] = cellBar
		}
	}

	sel := m.ctrl.Selection()
	switch {
	case sel.Begin == timegraph.Unset:
	case sel.Instant():
		if w.Contains(sel.Begin) {
			x := clampX(sel.Begin)
			if kinds[x] == cellBar {
				glyphs[x] = '┿'
			} else {
				glyphs[x] = '│'
			}
			kinds[x] = cellCursor
		}
	case sel.Begin <= w.End && sel.End >= w.Start:
		for x := clampX(sel.Begin); x <= clampX(sel.End); x++ {
			kinds[x] = cellSelection
		}
	}

	bar := m.styles.Bar
	if selected {
		bar = m.styles.BarSel
	}
	var b strings.Builder
	for start := 0; start < width; {
		end := start
		for end < width && kinds[end] == kinds[start] {
			end++
		}
		run := string(glyphs[start:end])
		switch kinds[start] {
		case cellBar:
			run = bar.Render(run)
		case cellSelection:
			run = m.styles.Selection.Render(run)
		case cellCursor:
			run = m.styles.Cursor.Render(run)
		}
		b.WriteString(run)
		start = end
	}
	return b.String()
}

// renderScrubber draws the window as a thumb on a track spanning the
// bounds, using the controller's scrollbar mapping.
func (m TimelineModel) renderScrubber() string {
	width := m.barWidth()
	pos, thumb := m.ctrl.ScrollPosition()
	r := int64(max(m.ctrl.ScrollRange(), 1))
	start := int(int64(pos) * int64(width) / r)
	size := max(int(int64(thumb)*int64(width)/r), 1)
	start = min(start, max(width-size, 0))

	track := m.styles.Track
	return strings.Repeat(" ", m.nameWidth()) + m.styles.Muted.Render("│") +
		track.Render(strings.Repeat("─", start)) +
		m.styles.Thumb.Render(strings.Repeat("█", min(size, width))) +
		track.Render(strings.Repeat("─", max(width-start-size, 0)))
}

func (m TimelineModel) renderStatus() string {
	switch {
	case m.goingTo:
		return m.input.View()
	case m.status != "" && m.statusErr:
		return m.styles.Error.Render(m.status)
	case m.status != "":
		return m.styles.Status.Render(m.status)
	case m.data.skipped > 0:
		return m.styles.Status.Render(i18n.Tf("tui.timeline.skipped", "%d malformed lines skipped", m.data.skipped))
	}
	return ""
}

func (m TimelineModel) renderHelp() string {
	k := m.keys
	pairs := [][2]string{
		{k.PanLeft.Help().Key + " " + k.PanRight.Help().Key, i18n.T("tui.help.pan", "pan")},
		{k.ZoomIn.Help().Key + " " + k.ZoomOut.Help().Key, i18n.T("tui.help.zoom", "zoom")},
		{k.Reset.Help().Key, i18n.T("tui.help.reset", "reset")},
		{k.Up.Help().Key + " " + k.Down.Help().Key, i18n.T("tui.help.select", "select")},
		{k.Center.Help().Key, i18n.T("tui.help.center", "center")},
		{k.CursorL.Help().Key + " " + k.CursorR.Help().Key, i18n.T("tui.help.cursor", "cursor")},
		{k.GoTo.Help().Key, i18n.T("tui.help.goto", "go to")},
		{k.Format.Help().Key, i18n.T("tui.help.format", "format")},
		{k.Quit.Help().Key, i18n.T("tui.help.quit", "quit")},
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p[0] + ": " + p[1]
	}
	return m.styles.Muted.Render(strings.Join(parts, "  "))
}
