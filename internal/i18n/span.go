package i18n

import (
	"strconv"
	"strings"
	"time"
)

var spanUnits = []struct {
	id  string
	def string
	ns  uint64
}{
	{"common.span.hours", "%s h", uint64(time.Hour)},
	{"common.span.minutes", "%s min", uint64(time.Minute)},
	{"common.span.seconds", "%s s", uint64(time.Second)},
	{"common.span.millis", "%s ms", uint64(time.Millisecond)},
	{"common.span.micros", "%s µs", uint64(time.Microsecond)},
}

// FormatSpan renders a length of time given in nanoseconds in the largest
// unit that keeps the value at or above 1, with at most three decimals.
func FormatSpan(ns uint64) string {
	for _, u := range spanUnits {
		if ns >= u.ns {
			return Tf(u.id, u.def, trimFloat(float64(ns)/float64(u.ns)))
		}
	}
	return Tf("common.span.nanos", "%s ns", strconv.FormatUint(ns, 10))
}

func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
