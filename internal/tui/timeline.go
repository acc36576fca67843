package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/wethinkt/go-timegraph/internal/forest"
	"github.com/wethinkt/go-timegraph/internal/i18n"
	"github.com/wethinkt/go-timegraph/internal/syncbus"
	"github.com/wethinkt/go-timegraph/internal/timegraph"
	"github.com/wethinkt/go-timegraph/internal/tui/theme"
	"github.com/wethinkt/go-timegraph/internal/tuilog"
)

// panStep is the fraction of the window one pan key moves.
const panStep = 0.25

// TimelineConfig configures a timeline view.
type TimelineConfig struct {
	Path     string
	Result   *forest.Result // initial load, may be nil
	Viewport timegraph.Options
	Theme    theme.Theme

	// Reloads delivers fresh loads of Path; nil when not watching.
	Reloads <-chan forest.Reload
	// Transport shares the view with other views; nil when standalone.
	Transport syncbus.Transport
}

// timelineData is shared by every copy of the model. It is only touched
// from Update, where the controller's host also runs.
type timelineData struct {
	path    string
	forest  *forest.Forest
	rows    []*timegraph.Node
	skipped int
}

func (d *timelineData) lookup(id string) timegraph.Entry {
	return d.forest.Entry(id)
}

// TimelineModel is a terminal time graph: one row per entry, a time axis
// and a scrubber showing the visible window within the bounds.
type TimelineModel struct {
	host   *ProgramHost
	ctrl   *timegraph.Controller
	detach func()
	data   *timelineData

	keys    timelineKeyMap
	styles  Styles
	input   textinput.Model
	goingTo bool

	reloads <-chan forest.Reload
	synced  bool
	zoom    float64 // wheel zoom step, same as the keys

	width, height int
	status        string
	statusErr     bool
}

// NewTimelineModel creates the model and its controller. Close must be
// called once the program has exited.
func NewTimelineModel(cfg TimelineConfig) TimelineModel {
	host := NewProgramHost()
	ctrl := timegraph.NewController(host, cfg.Viewport)

	ti := textinput.New()
	ti.Prompt = i18n.T("tui.timeline.goto", "Go to time: ")
	ti.Placeholder = "1.5s"
	ti.CharLimit = 40

	m := TimelineModel{
		host:    host,
		ctrl:    ctrl,
		data:    &timelineData{path: cfg.Path},
		keys:    defaultTimelineKeyMap(),
		styles:  buildStyles(cfg.Theme),
		input:   ti,
		reloads: cfg.Reloads,
		zoom:    cfg.Viewport.ZoomFactor,
	}
	if cfg.Result != nil {
		m.setForest(cfg.Result)
	}
	if cfg.Transport != nil {
		m.detach = syncbus.Attach(ctrl, host, cfg.Transport, m.data.lookup)
		m.synced = true
	}
	return m
}

// Controller returns the model's viewport controller.
func (m TimelineModel) Controller() *timegraph.Controller { return m.ctrl }

// Close detaches from the sync transport and stops the controller.
func (m TimelineModel) Close() {
	// The host goes first so a sync goroutine blocked in Post can finish.
	m.host.Close()
	if m.detach != nil {
		m.detach()
	}
	m.ctrl.Close()
}

// setForest replaces the displayed entries, keeping the selected entry
// when its id still exists. The new node is announced since peers hold
// the old one.
func (m *TimelineModel) setForest(res *forest.Result) {
	prev := syncbus.EntryID(m.ctrl.SelectedEntry())
	m.data.forest = res.Forest
	m.data.rows = timegraph.Flatten(res.Forest.Roots)
	m.data.skipped = len(res.Errors)
	m.ctrl.SetInput(res.Forest.Entries())
	if n := res.Forest.Lookup(prev); n != nil {
		m.ctrl.SelectEntry(n)
	}
}

type reloadMsg forest.Reload

func waitReload(ch <-chan forest.Reload) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg(r)
	}
}

func (m TimelineModel) Init() tea.Cmd {
	return tea.Batch(m.host.listen(), waitReload(m.reloads))
}

func (m TimelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case hostMsg:
		msg()
		return m, m.host.listen()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ctrl.SetPixelWidth(m.barWidth())
		return m, nil

	case reloadMsg:
		if msg.Err != nil {
			m.setStatus(i18n.Tf("tui.timeline.loadError", "Load failed: %s", msg.Err), true)
		} else {
			m.setForest(msg.Result)
			m.setStatus(i18n.Tf("tui.timeline.reloaded", "Reloaded %s", filepath.Base(m.data.path)), false)
		}
		return m, waitReload(m.reloads)

	case tea.MouseWheelMsg:
		x := msg.X - m.barOffset()
		if x < 0 || x >= m.ctrl.PixelWidth() {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseWheelUp:
			m.ctrl.ZoomAt(1/m.zoomFactor(), m.ctrl.XToTime(x))
		case tea.MouseWheelDown:
			m.ctrl.ZoomAt(m.zoomFactor(), m.ctrl.XToTime(x))
		}
		return m, nil

	case tea.MouseClickMsg:
		x := msg.X - m.barOffset()
		if msg.Button != tea.MouseLeft || x < 0 || x >= m.ctrl.PixelWidth() {
			return m, nil
		}
		if row := msg.Y - headerLines; row >= 0 {
			if idx := m.rowOffset() + row; idx < len(m.data.rows) && row < m.visibleRows() {
				m.ctrl.SelectEntry(m.data.rows[idx])
			}
		}
		m.ctrl.CenterOnNotify(m.ctrl.XToTime(x), false)
		return m, nil

	case tea.KeyMsg:
		if m.goingTo {
			return m.updateGoTo(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m TimelineModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.PanLeft):
		m.ctrl.Pan(-panStep)
	case key.Matches(msg, keys.PanRight):
		m.ctrl.Pan(panStep)
	case key.Matches(msg, keys.ZoomIn):
		m.ctrl.ZoomIn()
	case key.Matches(msg, keys.ZoomOut):
		m.ctrl.ZoomOut()
	case key.Matches(msg, keys.Reset):
		m.ctrl.ResetWindow()
	case key.Matches(msg, keys.Up):
		m.moveRow(-1)
	case key.Matches(msg, keys.Down):
		m.moveRow(1)
	case key.Matches(msg, keys.Center):
		if n, ok := m.ctrl.SelectedEntry().(*timegraph.Node); ok && n != nil {
			m.ctrl.CenterOnNotify(timegraph.Midpoint(n.Start, n.End), true)
		}
	case key.Matches(msg, keys.CursorL):
		m.moveCursor(-1)
	case key.Matches(msg, keys.CursorR):
		m.moveCursor(1)
	case key.Matches(msg, keys.Format):
		m.ctrl.SetTimeFormat((m.ctrl.TimeFormat() + 1) % (timegraph.FormatCycles + 1))
	case key.Matches(msg, keys.GoTo):
		m.goingTo = true
		m.input.SetValue("")
		return m, m.input.Focus()
	}
	return m, nil
}

func (m TimelineModel) updateGoTo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.goingTo = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.goingTo = false
		m.input.Blur()
		t, err := parseTime(m.input.Value())
		if err != nil {
			m.setStatus(i18n.Tf("tui.timeline.badTime", "Invalid time %q", m.input.Value()), true)
			return m, nil
		}
		m.ctrl.CenterOnNotify(t, true)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// moveRow selects the entry delta rows away from the current one.
func (m *TimelineModel) moveRow(delta int) {
	rows := m.data.rows
	if len(rows) == 0 {
		return
	}
	idx := m.selectedRow()
	if idx < 0 {
		idx = 0
	} else {
		idx = min(max(idx+delta, 0), len(rows)-1)
	}
	m.ctrl.SelectEntry(rows[idx])
}

// moveCursor moves the selected instant by delta columns.
func (m *TimelineModel) moveCursor(delta int) {
	if !m.ctrl.Bounds().Defined() {
		return
	}
	sel := m.ctrl.Selection()
	t := m.ctrl.Window().Mid()
	if sel.Begin != timegraph.Unset {
		x := m.ctrl.TimeToX(sel.Begin) + delta
		t = m.ctrl.XToTime(x)
		if t == sel.Begin {
			// Zoomed in past one unit per column.
			t = timegraph.SatAdd(t, int64(delta))
		}
	}
	m.ctrl.CenterOnNotify(t, true)
}

func (m *TimelineModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
	if isErr {
		tuilog.Log.Warn("Timeline status", "message", s)
	}
}

func (m TimelineModel) zoomFactor() float64 {
	if m.zoom > 1 {
		return m.zoom
	}
	return timegraph.DefaultZoomFactor
}

// selectedRow returns the index of the selected entry, or -1.
func (m TimelineModel) selectedRow() int {
	sel := m.ctrl.SelectedEntry()
	if sel == nil {
		return -1
	}
	for i, n := range m.data.rows {
		if timegraph.Entry(n) == sel {
			return i
		}
	}
	return -1
}

// parseTime reads a user supplied time: an integer is nanoseconds, a
// decimal is seconds and anything else must be a Go duration.
func parseTime(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		ns := f * 1e9
		if math.IsNaN(ns) || math.Abs(ns) >= math.MaxInt64 {
			return 0, fmt.Errorf("time %q out of range", s)
		}
		return int64(math.Round(ns)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return int64(d), nil
}
