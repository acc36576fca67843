package timegraph

import (
	"math"
	"math/rand/v2"
	"testing"
)

// newSilentController returns a controller whose host never runs flushes,
// so state can be inspected from the test goroutine without races.
func newSilentController(t *testing.T, opts Options) *Controller {
	t.Helper()
	c := NewController(HostFunc(func(func()) {}), opts)
	t.Cleanup(c.Close)
	return c
}

func forest(start, end int64) []Entry {
	return []Entry{NewNode("root", "root", start, end)}
}

func TestController_UndefinedBoundsAreNoOps(t *testing.T) {
	c := newSilentController(t, Options{})

	c.SetWindow(10, 20)
	c.SetWindowNotify(10, 20)
	c.SetSelectionNotify(5, 6)
	c.CenterOnNotify(15, true)
	c.Pan(0.5)
	c.ZoomIn()
	c.ResetWindow()

	if c.Window() != (Window{Unset, Unset}) {
		t.Errorf("Window() = %v, want unset", c.Window())
	}
	if c.Selection() != (Selection{Unset, Unset}) {
		t.Errorf("Selection() = %v, want unset", c.Selection())
	}
	if c.Pending(FlagRangeUpdated | FlagTimeSelected) {
		t.Error("a notification was scheduled without bounds")
	}
}

func TestController_SetInputDerivesBounds(t *testing.T) {
	c := newSilentController(t, Options{})
	root := NewNode("r", "r", 100, 200).Add(NewNode("c", "c", 50, 900))
	c.SetInput([]Entry{root})

	if c.Bounds() != (Bounds{50, 900}) {
		t.Errorf("Bounds() = %v, want [50, 900]", c.Bounds())
	}
	if c.Window() != (Window{50, 900}) {
		t.Errorf("Window() = %v, want (50, 900)", c.Window())
	}
	if sel := c.Selection(); sel.Begin != 50 || sel.End != 50 {
		t.Errorf("Selection() = %v, want clamped to bounds min", sel)
	}
	if c.WindowFixed() {
		t.Error("window should not be fixed after input")
	}
}

func TestController_PinnedBounds(t *testing.T) {
	c := newSilentController(t, Options{})
	c.SetInput(forest(0, 1000))

	c.SetTimeBounds(300, 100)
	if c.Bounds() != (Bounds{100, 300}) {
		t.Errorf("reversed pinned bounds = %v, want [100, 300]", c.Bounds())
	}

	c.SetInput(forest(-500, 5000))
	if c.Bounds() != (Bounds{100, 300}) {
		t.Errorf("pinned bounds changed by input: %v", c.Bounds())
	}

	c.SetTimeBounds(Unset, 400)
	if c.Bounds() != (Bounds{-500, 400}) {
		t.Errorf("half-pinned bounds = %v, want [-500, 400]", c.Bounds())
	}

	c.SetTimeBounds(Unset, Unset)
	if c.Bounds() != (Bounds{-500, 5000}) {
		t.Errorf("unpinned bounds = %v, want [-500, 5000]", c.Bounds())
	}
}

func TestController_FixedWindowSurvivesBoundsChange(t *testing.T) {
	c := newSilentController(t, Options{})
	c.SetInput(forest(0, 1000))
	c.SetWindow(100, 200)

	c.SetInput(forest(0, 150))
	if c.Window() != (Window{100, 150}) {
		t.Errorf("Window() = %v, want (100, 150)", c.Window())
	}

	c.ResetWindow()
	c.SetInput(forest(0, 2000))
	if c.Window() != (Window{0, 2000}) {
		t.Errorf("Window() after reset = %v, want full bounds", c.Window())
	}
}

func TestController_ScenarioA_MinInterval(t *testing.T) {
	c := newSilentController(t, Options{MinInterval: 1})
	c.SetTimeBounds(0, 1000)

	c.SetWindow(500, 500)
	if c.Window() != (Window{500, 501}) {
		t.Errorf("Window() = %v, want (500, 501)", c.Window())
	}
}

func TestController_MinIntervalFallbackAtMax(t *testing.T) {
	c := newSilentController(t, Options{MinInterval: 10})
	c.SetTimeBounds(0, 1000)

	c.SetWindow(995, 995)
	if c.Window() != (Window{995, 1000}) {
		t.Errorf("Window() = %v, want (995, 1000)", c.Window())
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestController_CenterOn(t *testing.T) {
	tests := []struct {
		name   string
		window Window
		t      int64
		want   Window
	}{
		{"visible time does not move", Window{100, 200}, 150, Window{100, 200}},
		// Shift by the edge distance plus half the length, then slide into bounds.
		{"right of window centers", Window{100, 200}, 900, Window{850, 950}},
		{"left of window centers", Window{500, 600}, 300, Window{250, 350}},
		{"slides back at max", Window{100, 200}, 990, Window{900, 1000}},
		{"slides back at min", Window{500, 600}, 10, Window{0, 100}},
		{"outside bounds clamps first", Window{100, 200}, 5000, Window{900, 1000}},
	}
	for _, tt := range tests {
		c := newSilentController(t, Options{})
		c.SetTimeBounds(0, 1000)
		c.SetWindow(tt.window.Start, tt.window.End)

		c.CenterOnNotify(tt.t, true)

		if c.Window() != tt.want {
			t.Errorf("%s: Window() = %v, want %v", tt.name, c.Window(), tt.want)
		}
		wantSel := min(tt.t, 1000)
		if c.Selection() != (Selection{wantSel, wantSel}) {
			t.Errorf("%s: Selection() = %v, want instant %d", tt.name, c.Selection(), wantSel)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("%s: %v", tt.name, err)
		}
	}
}

func TestController_CenterOnNotifyFlags(t *testing.T) {
	c := newSilentController(t, Options{})
	c.SetTimeBounds(0, 1000)
	c.SetWindow(100, 200)

	c.CenterOnNotify(150, true)
	if !c.Pending(FlagTimeSelected) {
		t.Error("time selection should be pending")
	}
	if c.Pending(FlagRangeUpdated) {
		t.Error("range should not be pending when the window did not move")
	}

	c.CenterOnNotify(900, true)
	if !c.Pending(FlagRangeUpdated) {
		t.Error("range should be pending after the window moved")
	}
}

func TestController_CenterOnWithoutEnsureVisible(t *testing.T) {
	c := newSilentController(t, Options{})
	c.SetTimeBounds(0, 1000)
	c.SetWindow(100, 200)

	c.CenterOn(900, false)
	if c.Window() != (Window{100, 200}) {
		t.Errorf("Window() = %v, want unchanged", c.Window())
	}
	if c.Selection() != (Selection{900, 900}) {
		t.Errorf("Selection() = %v, want (900, 900)", c.Selection())
	}
	if c.Pending(FlagTimeSelected) {
		t.Error("silent CenterOn scheduled a notification")
	}
}

func TestController_SilentMutatorsYieldToPending(t *testing.T) {
	c := newSilentController(t, Options{})
	c.SetTimeBounds(0, 1000)

	c.SetWindowNotify(100, 200)
	c.SetWindow(300, 400)
	if c.Window() != (Window{100, 200}) {
		t.Errorf("SetWindow overrode a pending range: %v", c.Window())
	}

	c.SetSelectionNotify(150, 160)
	c.SetSelection(10, 20)
	c.CenterOn(500, true)
	if c.Selection() != (Selection{150, 160}) {
		t.Errorf("silent selection overrode a pending one: %v", c.Selection())
	}

	a, b := NewNode("a", "a", 0, 1), NewNode("b", "b", 0, 1)
	c.SelectEntry(a)
	c.SetSelectedEntry(b)
	if c.SelectedEntry() != Entry(a) {
		t.Error("SetSelectedEntry overrode a pending entry selection")
	}

	c.FlushNow()
	c.SetWindow(300, 400)
	if c.Window() != (Window{300, 400}) {
		t.Errorf("SetWindow after flush = %v, want (300, 400)", c.Window())
	}
	c.SetSelectedEntry(b)
	if c.SelectedEntry() != Entry(b) {
		t.Error("SetSelectedEntry after flush had no effect")
	}
}

func TestController_SelectionClampedToBounds(t *testing.T) {
	c := newSilentController(t, Options{})
	c.SetTimeBounds(0, 1000)

	c.SetSelection(-50, 5000)
	if c.Selection() != (Selection{0, 1000}) {
		t.Errorf("Selection() = %v, want (0, 1000)", c.Selection())
	}
}

func TestController_SetSelectionNotifyShowsEnd(t *testing.T) {
	c := newSilentController(t, Options{})
	c.SetTimeBounds(0, 1000)
	c.SetWindow(0, 100)

	c.SetSelectionNotify(50, 700)
	if !c.Window().Contains(700) {
		t.Errorf("Window() = %v does not contain the selection end", c.Window())
	}
	if !c.Pending(FlagRangeUpdated) || !c.Pending(FlagTimeSelected) {
		t.Error("range and time notifications should be pending")
	}
}

func TestController_ZoomAndPan(t *testing.T) {
	c := newSilentController(t, Options{MinInterval: 10})
	c.SetTimeBounds(0, 1000)

	c.ZoomIn()
	w := c.Window()
	if w.Length() != 667 || !w.Contains(500) {
		t.Errorf("ZoomIn() window = %v, want length 667 around 500", w)
	}

	c.ZoomOut()
	c.ZoomOut()
	if c.Window() != (Window{0, 1000}) {
		t.Errorf("ZoomOut() window = %v, want full bounds", c.Window())
	}

	c.Zoom(0.000001)
	if c.Window().Length() != 10 {
		t.Errorf("deep zoom length = %d, want min interval 10", c.Window().Length())
	}

	c.FlushNow()
	c.SetWindow(100, 200)
	c.Pan(0.5)
	if c.Window() != (Window{150, 250}) {
		t.Errorf("Pan(0.5) = %v, want (150, 250)", c.Window())
	}
	c.Pan(-10)
	if c.Window() != (Window{0, 100}) {
		t.Errorf("Pan(-10) = %v, want (0, 100)", c.Window())
	}
	c.Pan(100)
	if c.Window() != (Window{900, 1000}) {
		t.Errorf("Pan(100) = %v, want (900, 1000)", c.Window())
	}
	if !c.Pending(FlagRangeUpdated) {
		t.Error("pan should schedule a range notification")
	}
}

func TestController_ZoomAtKeepsAnchor(t *testing.T) {
	c := newSilentController(t, Options{})
	c.SetTimeBounds(0, 1000)
	c.SetWindow(0, 1000)

	c.ZoomAt(0.5, 200)
	w := c.Window()
	if w != (Window{100, 600}) {
		t.Errorf("ZoomAt(0.5, 200) = %v, want (100, 600)", w)
	}
}

func TestController_ScrollTo(t *testing.T) {
	c := newSilentController(t, Options{ScrollRange: 1000})
	c.SetTimeBounds(0, 1000)
	c.SetWindow(0, 100)

	if pos, thumb := c.ScrollPosition(); pos != 0 || thumb != 100 {
		t.Errorf("ScrollPosition() = (%d, %d), want (0, 100)", pos, thumb)
	}
	c.ScrollTo(500)
	if c.Window() != (Window{500, 600}) {
		t.Errorf("ScrollTo(500) = %v, want (500, 600)", c.Window())
	}
}

func TestController_ScrollToKeepsFullSpanWindow(t *testing.T) {
	c := newSilentController(t, Options{})
	c.SetTimeBounds(math.MinInt64+1, math.MaxInt64)
	want := Window{math.MinInt64 + 1, math.MaxInt64}
	if c.Window() != want {
		t.Fatalf("Window() = %v, want %v", c.Window(), want)
	}

	for _, pos := range []int{0, DefaultScrollRange / 2, DefaultScrollRange} {
		c.ScrollTo(pos)
		if c.Window() != want {
			t.Errorf("ScrollTo(%d) = %v, want %v", pos, c.Window(), want)
		}
	}

	// A window wider than MaxInt64 keeps its length when dragged.
	c.SetWindowNotify(math.MinInt64+1, 1<<61)
	length := Span(c.Window().Start, c.Window().End)
	c.ScrollTo(DefaultScrollRange)
	if got := c.Window(); got.End != math.MaxInt64 || Span(got.Start, got.End) != length {
		t.Errorf("ScrollTo(max) = %v, want length %d ending at MaxInt64", got, length)
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
}

func TestController_PixelMapping(t *testing.T) {
	c := newSilentController(t, Options{})
	c.SetTimeBounds(0, 1000)
	c.SetWindow(0, 1000)
	c.SetPixelWidth(200)

	if x := c.TimeToX(500); x != 100 {
		t.Errorf("TimeToX(500) = %d, want 100", x)
	}
	if tm := c.XToTime(50); tm != 250 {
		t.Errorf("XToTime(50) = %d, want 250", tm)
	}
}

func TestController_InvariantsUnderRandomMutations(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	c := newSilentController(t, Options{MinInterval: 7, ScrollRange: 997})
	c.SetInput(forest(-1_000_000, 1_000_000))

	rnd := func() int64 { return rng.Int64N(3_000_000) - 1_500_000 }
	for i := 0; i < 5000; i++ {
		switch rng.IntN(10) {
		case 0:
			c.SetWindowNotify(rnd(), rnd())
		case 1:
			c.SetWindow(rnd(), rnd())
		case 2:
			c.CenterOnNotify(rnd(), rng.IntN(2) == 0)
		case 3:
			c.SetSelectionNotify(rnd(), rnd())
		case 4:
			c.Zoom(rng.Float64() * 3)
		case 5:
			c.Pan(rng.Float64()*4 - 2)
		case 6:
			c.ScrollTo(rng.IntN(1200) - 100)
		case 7:
			c.ResetWindow()
		case 8:
			lo := rnd()
			c.SetInput(forest(lo, lo+rng.Int64N(1000)))
		case 9:
			c.FlushNow()
		}
		if err := c.Validate(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}
