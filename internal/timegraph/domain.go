// Package timegraph implements the time-axis viewport of a time graph view:
// the bounds of the loaded data, the visible window, the time selection and
// the selected entry, plus the coordinate mapping and debounced listener
// notification that keep cooperating views in sync.
//
// All times are signed 64-bit nanosecond timestamps.
package timegraph

import (
	"fmt"
	"math"
)

// Unset marks a time that has not been defined yet (no data loaded).
const Unset int64 = math.MinInt64

// DefaultMinInterval is the smallest window length accepted by default.
const DefaultMinInterval int64 = 1

// Bounds is the full extent of the loaded data.
type Bounds struct {
	Min int64
	Max int64
}

// UnsetBounds returns bounds with both ends undefined.
func UnsetBounds() Bounds {
	return Bounds{Min: Unset, Max: Unset}
}

// Defined reports whether both ends are known and ordered.
func (b Bounds) Defined() bool {
	return b.Min != Unset && b.Max != Unset && b.Min <= b.Max
}

// Degenerate reports whether the bounds collapse to a single instant
// (or are undefined).
func (b Bounds) Degenerate() bool {
	return !b.Defined() || b.Min == b.Max
}

// Span returns Max-Min without overflow.
func (b Bounds) Span() uint64 {
	if !b.Defined() {
		return 0
	}
	return Span(b.Min, b.Max)
}

// Clamp limits t to [Min, Max]. Undefined bounds return t unchanged.
func (b Bounds) Clamp(t int64) int64 {
	if !b.Defined() {
		return t
	}
	return ClampToBounds(t, b)
}

func (b Bounds) String() string {
	if !b.Defined() {
		return "[unset]"
	}
	return fmt.Sprintf("[%d, %d]", b.Min, b.Max)
}

// Window is the visible slice of the bounds.
type Window struct {
	Start int64
	End   int64
}

// Length returns End-Start saturated to the int64 range. A reversed window
// has length 0.
func (w Window) Length() int64 {
	if w.End <= w.Start {
		return 0
	}
	return SatSub(w.End, w.Start)
}

// Contains reports whether t lies inside the window, edges included.
func (w Window) Contains(t int64) bool {
	return t >= w.Start && t <= w.End
}

// Mid returns the window midpoint without overflow.
func (w Window) Mid() int64 {
	return Midpoint(w.Start, w.End)
}

func (w Window) String() string {
	return fmt.Sprintf("(%d, %d)", w.Start, w.End)
}

// Selection is a highlighted time range or, when Begin == End, an instant.
// It is clamped to the bounds but may lie outside the window.
type Selection struct {
	Begin int64
	End   int64
}

// Instant reports whether the selection is a single point in time.
func (s Selection) Instant() bool {
	return s.Begin == s.End
}

func (s Selection) String() string {
	return fmt.Sprintf("(%d, %d)", s.Begin, s.End)
}

// ClampToBounds limits t to [b.Min, b.Max].
func ClampToBounds(t int64, b Bounds) int64 {
	if t < b.Min {
		return b.Min
	}
	if t > b.Max {
		return b.Max
	}
	return t
}

// ClampWindow clamps both ends of w into b and then enforces minInterval by
// growing End, never Start. When Bounds.Max leaves no room the window is
// accepted shorter than minInterval; it never ends before it starts.
func ClampWindow(w Window, b Bounds, minInterval int64) Window {
	if !b.Defined() {
		return w
	}
	start := ClampToBounds(w.Start, b)
	end := ClampToBounds(w.End, b)
	if end < start {
		end = start
	}
	if minInterval > 0 && Span(start, end) < uint64(minInterval) {
		end = min(b.Max, SatAdd(start, minInterval))
	}
	return Window{Start: start, End: end}
}

// ClampSelection clamps both ends of s into b.
func ClampSelection(s Selection, b Bounds) Selection {
	if !b.Defined() {
		return s
	}
	return Selection{Begin: ClampToBounds(s.Begin, b), End: ClampToBounds(s.End, b)}
}

// Validate checks the viewport invariants: bounds ordered, window inside
// bounds and at least minInterval long (unless pinned against Bounds.Max),
// selection inside bounds.
func Validate(b Bounds, w Window, s Selection, minInterval int64) error {
	if !b.Defined() {
		return nil
	}
	if w.Start < b.Min || w.End > b.Max {
		return fmt.Errorf("window %s outside bounds %s", w, b)
	}
	if w.Start > w.End {
		return fmt.Errorf("window %s is reversed", w)
	}
	if minInterval > 0 && Span(w.Start, w.End) < uint64(minInterval) && w.End != b.Max {
		return fmt.Errorf("window %s shorter than minimum interval %d", w, minInterval)
	}
	if s.Begin < b.Min || s.Begin > b.Max || s.End < b.Min || s.End > b.Max {
		return fmt.Errorf("selection %s outside bounds %s", s, b)
	}
	return nil
}

// SatAdd returns a+b saturated to [MinInt64, MaxInt64].
func SatAdd(a, b int64) int64 {
	c := a + b
	if (c > a) == (b > 0) {
		return c
	}
	if b > 0 {
		return math.MaxInt64
	}
	return math.MinInt64
}

// SatSub returns a-b saturated to [MinInt64, MaxInt64].
func SatSub(a, b int64) int64 {
	c := a - b
	if (c < a) == (b > 0) {
		return c
	}
	if b > 0 {
		return math.MinInt64
	}
	return math.MaxInt64
}

// Span returns hi-lo as an unsigned distance; lo must not exceed hi.
func Span(lo, hi int64) uint64 {
	if hi <= lo {
		return 0
	}
	return uint64(hi) - uint64(lo)
}

// Midpoint returns the floor of (a+b)/2 without overflow.
func Midpoint(a, b int64) int64 {
	return (a >> 1) + (b >> 1) + (a & b & 1)
}

// addSpan adds an unsigned distance to t, saturating at MaxInt64.
func addSpan(t int64, d uint64) int64 {
	if d > uint64(math.MaxInt64)-uint64(t) {
		return math.MaxInt64
	}
	return int64(uint64(t) + d)
}
