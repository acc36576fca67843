package timegraph

import "math"

// centerWindow moves w so that t sits at its midpoint when t lies outside
// it, then slides the result back inside b keeping its length. The near
// edge is never pushed past b.Min; the far edge may end exactly at b.Max.
// A window shorter than minInterval is grown at its end, capped at b.Max.
func centerWindow(w Window, b Bounds, t int64, minInterval int64) Window {
	length := Span(w.Start, w.End)
	half := length / 2
	switch {
	case t < w.Start:
		w.Start = subSpan(t, half)
		w.End = addSpan(w.Start, length)
	case t > w.End:
		w.End = addSpan(t, half)
		w.Start = subSpan(w.End, length)
	}
	if w.Start < b.Min {
		w.Start = b.Min
		w.End = min(b.Max, addSpan(b.Min, length))
	} else if w.End > b.Max {
		w.Start = max(b.Min, subSpan(b.Max, length))
		w.End = b.Max
	}
	if minInterval > 0 && Span(w.Start, w.End) < uint64(minInterval) {
		w.End = min(b.Max, SatAdd(w.Start, minInterval))
	}
	return w
}

// placeWindow positions a window of the given length starting at start,
// sliding it back inside b when it would cross either edge. A length that
// does not fit yields the whole bounds.
func placeWindow(start int64, length uint64, b Bounds) Window {
	if length >= b.Span() {
		return Window{Start: b.Min, End: b.Max}
	}
	latest := subSpan(b.Max, length)
	start = min(max(start, b.Min), latest)
	return Window{Start: start, End: addSpan(start, length)}
}

// subSpan subtracts an unsigned distance from t, saturating at MinInt64.
func subSpan(t int64, d uint64) int64 {
	if d > uint64(t)+(1<<63) {
		return math.MinInt64
	}
	return int64(uint64(t) - d)
}

// scaleSpan multiplies a distance by f, saturating at MaxUint64.
func scaleSpan(d uint64, f float64) uint64 {
	v := math.Round(float64(d) * f)
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= math.MaxUint64:
		return math.MaxUint64
	default:
		return uint64(v)
	}
}
