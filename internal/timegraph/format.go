package timegraph

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"
)

// DefaultClockFrequency is the clock frequency in Hz used to convert
// nanoseconds to cycles: one cycle per nanosecond.
const DefaultClockFrequency int64 = 1_000_000_000

// TimeFormat selects how timestamps are displayed.
type TimeFormat int

const (
	// FormatRelative shows seconds.nanoseconds since the epoch of the trace.
	FormatRelative TimeFormat = iota
	// FormatAbsolute shows the UTC time of day with nanoseconds.
	FormatAbsolute
	// FormatCalendar shows the UTC date and time of day.
	FormatCalendar
	// FormatCycles shows clock cycles at the configured frequency.
	FormatCycles
)

var timeFormatNames = map[TimeFormat]string{
	FormatRelative: "relative",
	FormatAbsolute: "absolute",
	FormatCalendar: "calendar",
	FormatCycles:   "cycles",
}

func (f TimeFormat) String() string {
	if s, ok := timeFormatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("TimeFormat(%d)", int(f))
}

// ParseTimeFormat parses a format name as written in configuration.
func ParseTimeFormat(s string) (TimeFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatRelative, nil
	}
	for f, name := range timeFormatNames {
		if name == s {
			return f, nil
		}
	}
	return FormatRelative, fmt.Errorf("unknown time format %q", s)
}

// FormatTime renders t in the given format. freq is only used by
// FormatCycles; values <= 0 select DefaultClockFrequency.
func FormatTime(t int64, f TimeFormat, freq int64) string {
	if t == Unset {
		return "-"
	}
	switch f {
	case FormatAbsolute:
		return time.Unix(0, t).UTC().Format("15:04:05.000000000")
	case FormatCalendar:
		return time.Unix(0, t).UTC().Format("2006-01-02 15:04:05.000000000")
	case FormatCycles:
		return fmt.Sprintf("%d cc", NanosToCycles(t, freq))
	default:
		return formatSeconds(t)
	}
}

// NanosToCycles converts nanoseconds to cycles at freq Hz, saturating.
func NanosToCycles(t, freq int64) int64 {
	if freq <= 0 {
		freq = DefaultClockFrequency
	}
	if freq == DefaultClockFrequency {
		return t
	}
	v := new(big.Int).Mul(big.NewInt(t), big.NewInt(freq))
	v.Quo(v, big.NewInt(DefaultClockFrequency))
	return saturateBig(v)
}

// CyclesToNanos converts cycles at freq Hz back to nanoseconds, saturating.
func CyclesToNanos(c, freq int64) int64 {
	if freq <= 0 {
		freq = DefaultClockFrequency
	}
	if freq == DefaultClockFrequency {
		return c
	}
	v := new(big.Int).Mul(big.NewInt(c), big.NewInt(DefaultClockFrequency))
	v.Quo(v, big.NewInt(freq))
	return saturateBig(v)
}

func formatSeconds(t int64) string {
	sign := ""
	u := uint64(t)
	if t < 0 {
		sign = "-"
		u = -u
	}
	return fmt.Sprintf("%s%d.%09d", sign, u/1e9, u%1e9)
}

func saturateBig(v *big.Int) int64 {
	if v.IsInt64() {
		return v.Int64()
	}
	if v.Sign() > 0 {
		return math.MaxInt64
	}
	return math.MinInt64
}
