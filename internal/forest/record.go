// Package forest loads entry forests for the timeline from JSON-lines files.
//
// Each non-empty line is one record:
//
//	{"id":"cpu0","name":"CPU 0","start":1000,"end":5000}
//	{"id":"irq","parent":"cpu0","start":"2026-01-24T10:00:00.5Z","end":4000}
//
// Times are nanoseconds since the epoch, given either as integers or as
// RFC 3339 strings. A record without start and end is a grouping row with no
// time events of its own.
package forest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wethinkt/go-timegraph/internal/timegraph"
)

// Record is one line of a forest file.
type Record struct {
	ID     string `json:"id"`
	Parent string `json:"parent,omitempty"`
	Name   string `json:"name,omitempty"`
	Start  *Time  `json:"start,omitempty"`
	End    *Time  `json:"end,omitempty"`
}

// HasTime reports whether the record carries a time extent.
func (r Record) HasTime() bool {
	return r.Start != nil && r.End != nil
}

// Validate checks a single record in isolation.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("missing id")
	}
	if (r.Start == nil) != (r.End == nil) {
		return fmt.Errorf("record %q: start and end must be given together", r.ID)
	}
	if r.HasTime() && *r.End < *r.Start {
		return fmt.Errorf("record %q: end %d before start %d", r.ID, *r.End, *r.Start)
	}
	if r.HasTime() && (*r.Start == Time(timegraph.Unset) || *r.End == Time(timegraph.Unset)) {
		return fmt.Errorf("record %q: time out of range", r.ID)
	}
	return nil
}

// Time is a nanosecond timestamp that decodes from a JSON integer or an
// RFC 3339 string.
type Time int64

func (t *Time) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("parse time %q: %w", s, err)
		}
		*t = Time(ts.UnixNano())
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parse time %s: %w", data, err)
	}
	*t = Time(n)
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(t))
}
