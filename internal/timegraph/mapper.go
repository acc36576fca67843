package timegraph

import (
	"math"
	"math/bits"
)

// DefaultScrollRange is the scrollbar coordinate space used when none is
// configured. It matches the largest range a 32-bit toolkit slider accepts.
const DefaultScrollRange = math.MaxInt32 - 1

// WindowToScroll maps w within b onto a scrollbar of scrollRange units and
// returns the thumb position and size. Both are floored; the thumb is never
// smaller than 1. Degenerate or undefined bounds map to (0, scrollRange).
func WindowToScroll(w Window, b Bounds, scrollRange int) (position, thumb int) {
	if scrollRange <= 0 {
		return 0, 0
	}
	if b.Degenerate() {
		return 0, scrollRange
	}
	span := b.Span()
	w = ClampWindow(w, b, 0)
	position = int(mulDiv(uint64(scrollRange), Span(b.Min, w.Start), span, false))
	thumb = int(mulDiv(uint64(scrollRange), Span(w.Start, w.End), span, false))
	thumb = max(1, thumb)
	return position, thumb
}

// ScrollToWindow is the inverse of WindowToScroll: it places a window of the
// given length so that its start corresponds to position. The result is
// clamped to b, sliding back from Max to keep the length when possible.
func ScrollToWindow(position int, b Bounds, scrollRange int, length uint64) Window {
	if !b.Defined() {
		return Window{Start: Unset, End: Unset}
	}
	if b.Degenerate() || scrollRange <= 0 {
		return Window{Start: b.Min, End: b.Max}
	}
	position = min(max(position, 0), scrollRange)
	span := b.Span()
	offset := mulDiv(span, uint64(position), uint64(scrollRange), true)
	// Rounding down may map back to position-1; nudge so repeated round
	// trips through the scrollbar are stable.
	if offset < span && mulDiv(uint64(scrollRange), offset, span, false) < uint64(position) {
		offset++
	}
	return placeWindow(addSpan(b.Min, offset), length, b)
}

// TimeToX converts t to a pixel column of a viewport width pixels wide that
// shows w. Times outside the window map outside [0, width). A degenerate
// window maps every time to column 0.
func TimeToX(t int64, w Window, width int) int {
	if width <= 0 || w.End <= w.Start {
		return 0
	}
	pixelsPerNano := float64(width) / float64(Span(w.Start, w.End))
	var x float64
	if t >= w.Start {
		x = float64(Span(w.Start, t)) * pixelsPerNano
	} else {
		x = -float64(Span(t, w.Start)) * pixelsPerNano
	}
	return clampInt(x)
}

// XToTime converts a pixel column back to a time. A degenerate window maps
// every column to w.Start.
func XToTime(x int, w Window, width int) int64 {
	if width <= 0 || w.End <= w.Start {
		return w.Start
	}
	nanosPerPixel := float64(Span(w.Start, w.End)) / float64(width)
	delta := math.Round(float64(x) * nanosPerPixel)
	switch {
	case delta >= math.MaxInt64:
		return addSpan(w.Start, math.MaxUint64)
	case delta >= 0:
		return addSpan(w.Start, uint64(delta))
	case delta <= math.MinInt64:
		return math.MinInt64
	default:
		return SatAdd(w.Start, int64(delta))
	}
}

// mulDiv computes a*b/c with a 128-bit intermediate. The quotient must fit
// in 64 bits, which holds whenever b <= c or a <= c.
func mulDiv(a, b, c uint64, round bool) uint64 {
	if c == 0 {
		return 0
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return math.MaxUint64
	}
	q, r := bits.Div64(hi, lo, c)
	if round && r >= c-r && q < math.MaxUint64 {
		q++
	}
	return q
}

func clampInt(x float64) int {
	switch {
	case x >= math.MaxInt32:
		return math.MaxInt32
	case x <= math.MinInt32:
		return math.MinInt32
	default:
		return int(math.Floor(x))
	}
}
