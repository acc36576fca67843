package timegraph

import (
	"math"
	"time"

	"github.com/wethinkt/go-timegraph/internal/tuilog"
)

// DefaultZoomFactor is the window scale applied by one ZoomIn or ZoomOut.
const DefaultZoomFactor = 1.5

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	MinInterval    int64
	SettleDelay    time.Duration
	PollInterval   time.Duration
	ScrollRange    int
	ZoomFactor     float64
	TimeFormat     TimeFormat
	ClockFrequency int64

	// Source is the identity stamped on outgoing events. A random one is
	// generated when empty.
	Source SourceID
}

func (o Options) withDefaults() Options {
	if o.MinInterval <= 0 {
		o.MinInterval = DefaultMinInterval
	}
	if o.ScrollRange <= 0 {
		o.ScrollRange = DefaultScrollRange
	}
	if o.ZoomFactor <= 1 {
		o.ZoomFactor = DefaultZoomFactor
	}
	if o.ClockFrequency <= 0 {
		o.ClockFrequency = DefaultClockFrequency
	}
	if o.Source == "" {
		o.Source = NewSourceID()
	}
	return o
}

// Controller owns the time axis of one view: bounds, visible window, time
// selection and selected entry. It is not safe for concurrent use; every
// method must run on the host passed to NewController. Listener
// registration is the exception and may happen from any goroutine.
//
// Mutators come in pairs. The plain form changes state silently and is
// skipped while a notification of the same kind is pending, so programmatic
// echoes do not overwrite a change that is about to be broadcast. The
// Notify form changes state and schedules a debounced notification.
type Controller struct {
	opts Options
	host Host

	entries   []Entry
	beginTime int64 // pinned bounds start, Unset to derive from entries
	endTime   int64 // pinned bounds end, Unset to derive from entries

	bounds     Bounds
	window     Window
	selection  Selection
	selected   Entry
	fixed      bool
	pixelWidth int

	notifier *Notifier
	guard    *SyncGuard

	selectionListeners listenerSet[SelectionListener]
	rangeListeners     listenerSet[RangeListener]
	timeListeners      listenerSet[TimeListener]
}

// NewController creates a controller with no data. Window and selection
// mutators are no-ops until bounds are known.
func NewController(host Host, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		opts:      opts,
		host:      host,
		beginTime: Unset,
		endTime:   Unset,
		bounds:    UnsetBounds(),
		window:    Window{Start: Unset, End: Unset},
		selection: Selection{Begin: Unset, End: Unset},
		guard:     NewSyncGuard(opts.Source),
	}
	c.notifier = NewNotifier(host, opts.SettleDelay, opts.PollInterval, c.flush)
	return c
}

// Source returns the identity stamped on events from this controller.
func (c *Controller) Source() SourceID { return c.opts.Source }

func (c *Controller) Bounds() Bounds         { return c.bounds }
func (c *Controller) Window() Window         { return c.window }
func (c *Controller) Selection() Selection   { return c.selection }
func (c *Controller) SelectedEntry() Entry   { return c.selected }
func (c *Controller) MinInterval() int64     { return c.opts.MinInterval }
func (c *Controller) TimeFormat() TimeFormat { return c.opts.TimeFormat }
func (c *Controller) ClockFrequency() int64  { return c.opts.ClockFrequency }

// WindowFixed reports whether the user pinned the window; a pinned window
// survives bounds changes instead of resetting to the full extent.
func (c *Controller) WindowFixed() bool { return c.fixed }

// Validate checks the viewport invariants.
func (c *Controller) Validate() error {
	return Validate(c.bounds, c.window, c.selection, c.opts.MinInterval)
}

// SetInput replaces the entry forest and derives bounds from it.
func (c *Controller) SetInput(entries []Entry) {
	c.entries = entries
	c.selected = nil
	c.refreshBounds()
}

// SetTimeBounds pins the bounds. Either end may be Unset to derive it from
// the entries again; reversed ends are swapped.
func (c *Controller) SetTimeBounds(begin, end int64) {
	if begin != Unset && end != Unset && begin > end {
		begin, end = end, begin
	}
	c.beginTime = begin
	c.endTime = end
	c.refreshBounds()
}

func (c *Controller) refreshBounds() {
	lo, hi := c.beginTime, c.endTime
	if lo == Unset || hi == Unset {
		if folded, ok := FoldBounds(c.entries); ok {
			if lo == Unset {
				lo = folded.Min
			}
			if hi == Unset {
				hi = folded.Max
			}
		}
	}
	if lo == Unset {
		lo = hi
	}
	if hi == Unset {
		hi = lo
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	c.bounds = Bounds{Min: lo, Max: hi}
	if !c.bounds.Defined() {
		return
	}
	c.ResolveWindow()
	c.selection = ClampSelection(c.selection, c.bounds)
	tuilog.Log.Debug("Viewport bounds", "bounds", c.bounds, "window", c.window)
}

// ResolveWindow recomputes the window after a bounds change: the whole
// bounds unless the window was pinned, clamped and at least MinInterval.
func (c *Controller) ResolveWindow() {
	if !c.bounds.Defined() {
		return
	}
	if !c.fixed || c.window.Start == Unset {
		c.window = Window{Start: c.bounds.Min, End: c.bounds.Max}
	}
	c.window = ClampWindow(c.window, c.bounds, c.opts.MinInterval)
}

func (c *Controller) setWindow(start, end int64) {
	c.window = ClampWindow(Window{Start: start, End: end}, c.bounds, c.opts.MinInterval)
	c.fixed = true
}

// SetWindow changes the window without notifying listeners. It is ignored
// while a range notification is pending.
func (c *Controller) SetWindow(start, end int64) {
	if !c.bounds.Defined() || c.notifier.Pending(FlagRangeUpdated) {
		return
	}
	c.setWindow(start, end)
}

// SetWindowNotify changes the window and schedules a range notification.
func (c *Controller) SetWindowNotify(start, end int64) {
	if !c.bounds.Defined() {
		return
	}
	c.setWindow(start, end)
	c.notifier.Mark(FlagRangeUpdated)
}

// NotifyWindow schedules a range notification for the current window.
func (c *Controller) NotifyWindow() {
	if !c.bounds.Defined() {
		return
	}
	c.notifier.Mark(FlagRangeUpdated)
}

// ResetWindow shows the whole bounds again and forgets the pinned window.
func (c *Controller) ResetWindow() {
	if !c.bounds.Defined() {
		return
	}
	c.SetWindowNotify(c.bounds.Min, c.bounds.Max)
	c.fixed = false
}

// FlushNow delivers pending notifications immediately instead of waiting
// for the settle delay.
func (c *Controller) FlushNow() {
	c.notifier.Flush()
}

// Pending reports whether a notification of any kind in f is scheduled.
func (c *Controller) Pending(f Flags) bool {
	return c.notifier.Pending(f)
}

// CenterOn selects the instant t, moving the window to center it when
// ensureVisible is set and t is not visible. No notification is sent, and
// the call is ignored while a time notification is pending.
func (c *Controller) CenterOn(t int64, ensureVisible bool) {
	if !c.bounds.Defined() || c.notifier.Pending(FlagTimeSelected) {
		return
	}
	c.selectTime(t, ensureVisible, false)
}

// CenterOnNotify is CenterOn with notification of the new selection and,
// if the window moved, of the new range.
func (c *Controller) CenterOnNotify(t int64, ensureVisible bool) {
	if !c.bounds.Defined() {
		return
	}
	c.selectTime(t, ensureVisible, true)
}

func (c *Controller) selectTime(t int64, ensureVisible, notify bool) {
	t = c.bounds.Clamp(t)
	prev := c.window
	if ensureVisible {
		c.ensureVisible(t)
	}
	changed := t != c.selection.Begin || t != c.selection.End
	c.selection = Selection{Begin: t, End: t}
	if notify && prev != c.window {
		c.notifier.Mark(FlagRangeUpdated)
	}
	if notify && changed {
		c.notifier.Mark(FlagTimeSelected)
	}
}

func (c *Controller) ensureVisible(t int64) {
	c.window = centerWindow(c.window, c.bounds, t, c.opts.MinInterval)
}

// SetSelection changes the time selection without notifying listeners. It
// is ignored while a time notification is pending.
func (c *Controller) SetSelection(begin, end int64) {
	if !c.bounds.Defined() || c.notifier.Pending(FlagTimeSelected) {
		return
	}
	c.selection = ClampSelection(Selection{Begin: begin, End: end}, c.bounds)
}

// SetSelectionNotify changes the time selection, brings its end into view
// and schedules the matching notifications.
func (c *Controller) SetSelectionNotify(begin, end int64) {
	if !c.bounds.Defined() {
		return
	}
	prev := c.window
	sel := ClampSelection(Selection{Begin: begin, End: end}, c.bounds)
	changed := sel != c.selection
	c.selection = sel
	c.ensureVisible(sel.End)
	if prev != c.window {
		c.notifier.Mark(FlagRangeUpdated)
	}
	if changed {
		c.notifier.Mark(FlagTimeSelected)
	}
}

// SelectEntry selects an entry of the forest and schedules a selection
// notification when it changed. Entries are compared by identity.
func (c *Controller) SelectEntry(e Entry) {
	if e == c.selected {
		return
	}
	c.selected = e
	c.notifier.Mark(FlagSelectionChanged)
}

// SetSelectedEntry selects an entry silently. It is ignored while a
// selection notification is pending.
func (c *Controller) SetSelectedEntry(e Entry) {
	if c.notifier.Pending(FlagSelectionChanged) {
		return
	}
	c.selected = e
}

// Zoom scales the window around its midpoint. Factors below 1 zoom in.
func (c *Controller) Zoom(factor float64) {
	if !c.bounds.Defined() {
		return
	}
	c.ZoomAt(factor, c.window.Mid())
}

// ZoomAt scales the window keeping anchor at the same relative position.
func (c *Controller) ZoomAt(factor float64, anchor int64) {
	if !c.bounds.Defined() || factor <= 0 {
		return
	}
	w := c.window
	anchor = min(max(anchor, w.Start), w.End)
	length := Span(w.Start, w.End)
	newLength := max(scaleSpan(length, factor), uint64(c.opts.MinInterval))
	var before uint64
	if length > 0 {
		ratio := float64(Span(w.Start, anchor)) / float64(length)
		before = scaleSpan(newLength, ratio)
	}
	next := placeWindow(subSpan(anchor, before), newLength, c.bounds)
	c.SetWindowNotify(next.Start, next.End)
}

// ZoomIn narrows the window by the configured zoom factor.
func (c *Controller) ZoomIn() { c.Zoom(1 / c.opts.ZoomFactor) }

// ZoomOut widens the window by the configured zoom factor.
func (c *Controller) ZoomOut() { c.Zoom(c.opts.ZoomFactor) }

// Pan shifts the window by a fraction of its own length; negative values
// move towards Bounds.Min. The window keeps its length at the edges.
func (c *Controller) Pan(deltaFraction float64) {
	if !c.bounds.Defined() {
		return
	}
	w := c.window
	length := Span(w.Start, w.End)
	shift := scaleSpan(length, math.Abs(deltaFraction))
	start := w.Start
	if deltaFraction < 0 {
		start = subSpan(start, shift)
	} else {
		start = addSpan(start, shift)
	}
	next := placeWindow(start, length, c.bounds)
	c.SetWindowNotify(next.Start, next.End)
}

// ScrollPosition returns the horizontal scrollbar position and thumb size
// for the current window.
func (c *Controller) ScrollPosition() (position, thumb int) {
	return WindowToScroll(c.window, c.bounds, c.opts.ScrollRange)
}

// ScrollRange returns the scrollbar coordinate space.
func (c *Controller) ScrollRange() int { return c.opts.ScrollRange }

// ScrollTo moves the window to a scrollbar position, keeping its length.
func (c *Controller) ScrollTo(position int) {
	if !c.bounds.Defined() {
		return
	}
	w := ScrollToWindow(position, c.bounds, c.opts.ScrollRange, Span(c.window.Start, c.window.End))
	c.SetWindowNotify(w.Start, w.End)
}

// SetPixelWidth sets the width of the time area in pixels (or cells).
func (c *Controller) SetPixelWidth(width int) { c.pixelWidth = max(width, 0) }

// PixelWidth returns the width of the time area.
func (c *Controller) PixelWidth() int { return c.pixelWidth }

// TimeToX converts a time to a column of the time area.
func (c *Controller) TimeToX(t int64) int { return TimeToX(t, c.window, c.pixelWidth) }

// XToTime converts a column of the time area to a time.
func (c *Controller) XToTime(x int) int64 { return XToTime(x, c.window, c.pixelWidth) }

// SetTimeFormat selects the display format of FormatTime.
func (c *Controller) SetTimeFormat(f TimeFormat) { c.opts.TimeFormat = f }

// SetClockFrequency sets the frequency used by FormatCycles.
func (c *Controller) SetClockFrequency(hz int64) {
	if hz <= 0 {
		hz = DefaultClockFrequency
	}
	c.opts.ClockFrequency = hz
}

// FormatTime renders t with the controller's format settings.
func (c *Controller) FormatTime(t int64) string {
	return FormatTime(t, c.opts.TimeFormat, c.opts.ClockFrequency)
}

// OnSelectionChanged registers l and returns a func that removes it.
func (c *Controller) OnSelectionChanged(l SelectionListener) func() {
	return c.selectionListeners.add(l)
}

// OnTimeRangeUpdated registers l and returns a func that removes it.
func (c *Controller) OnTimeRangeUpdated(l RangeListener) func() {
	return c.rangeListeners.add(l)
}

// OnTimeSelected registers l and returns a func that removes it.
func (c *Controller) OnTimeSelected(l TimeListener) func() {
	return c.timeListeners.add(l)
}

// ApplyWindow adopts a window broadcast by another view. Signals from this
// controller are ignored. The applied window counts as already broadcast.
func (c *Controller) ApplyWindow(src SourceID, start, end int64) {
	if c.guard.IsSelf(src) || !c.bounds.Defined() {
		return
	}
	c.setWindow(start, end)
	c.guard.Record(c.window.Start, c.window.End)
}

// ApplySelectedTime adopts a time (and optionally an entry) selected in
// another view, centering on it and notifying this view's listeners.
func (c *Controller) ApplySelectedTime(src SourceID, e Entry, t int64) {
	if c.guard.IsSelf(src) || !c.bounds.Defined() {
		return
	}
	if e != nil {
		c.selected = e
	}
	c.selectTime(t, true, true)
}

// ApplySelectionRange adopts a time range selected in another view.
func (c *Controller) ApplySelectionRange(src SourceID, begin, end int64) {
	if c.guard.IsSelf(src) {
		return
	}
	c.SetSelection(begin, end)
}

// ApplySelectedEntry adopts an entry selected in another view.
func (c *Controller) ApplySelectedEntry(src SourceID, e Entry) {
	if c.guard.IsSelf(src) {
		return
	}
	c.SetSelectedEntry(e)
}

// Close drops pending notifications; a timer already in flight will not
// reach the listeners.
func (c *Controller) Close() {
	c.notifier.Close()
}

// flush runs on the host once the notifier has settled.
func (c *Controller) flush(flags Flags) {
	if flags.Has(FlagSelectionChanged) {
		ev := SelectionEvent{Source: c.opts.Source, Entry: c.selected}
		for _, l := range c.selectionListeners.snapshot() {
			l(ev)
		}
	}
	if flags.Has(FlagRangeUpdated) {
		c.fireRange(c.window.Start, c.window.End)
	}
	if flags.Has(FlagTimeSelected) {
		ev := TimeEvent{Source: c.opts.Source, Begin: c.selection.Begin, End: c.selection.End}
		for _, l := range c.timeListeners.snapshot() {
			l(ev)
		}
	}
}

func (c *Controller) fireRange(start, end int64) {
	if c.guard.ShouldBroadcast(start, end) {
		ev := RangeEvent{Source: c.opts.Source, Start: start, End: end}
		for _, l := range c.rangeListeners.snapshot() {
			l(ev)
		}
	} else {
		broadcastsSuppressedTotal.Inc()
	}
	c.guard.Record(start, end)
}
