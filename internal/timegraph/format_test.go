package timegraph

import (
	"math"
	"testing"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		t    int64
		f    TimeFormat
		freq int64
		want string
	}{
		{1_500_000_000, FormatRelative, 0, "1.500000000"},
		{-1_500_000_000, FormatRelative, 0, "-1.500000000"},
		{42, FormatRelative, 0, "0.000000042"},
		{math.MinInt64 + 1, FormatRelative, 0, "-9223372036.854775807"},
		{3_723_000_000_001, FormatAbsolute, 0, "01:02:03.000000001"},
		{0, FormatCalendar, 0, "1970-01-01 00:00:00.000000000"},
		{1000, FormatCycles, 0, "1000 cc"},
		{1000, FormatCycles, 2_000_000_000, "2000 cc"},
		{Unset, FormatCalendar, 0, "-"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.t, tt.f, tt.freq); got != tt.want {
			t.Errorf("FormatTime(%d, %v) = %q, want %q", tt.t, tt.f, got, tt.want)
		}
	}
}

func TestCycleConversion(t *testing.T) {
	if got := NanosToCycles(1000, 500_000_000); got != 500 {
		t.Errorf("NanosToCycles(1000, 500MHz) = %d, want 500", got)
	}
	if got := CyclesToNanos(500, 500_000_000); got != 1000 {
		t.Errorf("CyclesToNanos(500, 500MHz) = %d, want 1000", got)
	}
	if got := NanosToCycles(math.MaxInt64, 4_000_000_000); got != math.MaxInt64 {
		t.Errorf("NanosToCycles overflow = %d, want MaxInt64", got)
	}
	if got := CyclesToNanos(math.MinInt64+1, 1); got != math.MinInt64 {
		t.Errorf("CyclesToNanos underflow = %d, want MinInt64", got)
	}
}

func TestParseTimeFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeFormat
		wantErr bool
	}{
		{"", FormatRelative, false},
		{"relative", FormatRelative, false},
		{"Absolute", FormatAbsolute, false},
		{" calendar ", FormatCalendar, false},
		{"CYCLES", FormatCycles, false},
		{"julian", FormatRelative, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if s := TimeFormat(9).String(); s != "TimeFormat(9)" {
		t.Errorf("String() of unknown format = %q", s)
	}
}

func TestController_FormatTime(t *testing.T) {
	c := newSilentController(t, Options{TimeFormat: FormatCycles})
	c.SetClockFrequency(2_000_000_000)
	if got := c.FormatTime(10); got != "20 cc" {
		t.Errorf("FormatTime(10) = %q, want %q", got, "20 cc")
	}
	c.SetClockFrequency(0)
	c.SetTimeFormat(FormatRelative)
	if got := c.FormatTime(10); got != "0.000000010" {
		t.Errorf("FormatTime(10) = %q, want %q", got, "0.000000010")
	}
}
