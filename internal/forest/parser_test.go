package forest

import (
	"strings"
	"testing"
	"time"
)

func TestParser_ReadAll(t *testing.T) {
	jsonl := `{"id":"cpu0","name":"CPU 0","start":1000,"end":5000}

# comment lines are skipped
{"id":"irq","parent":"cpu0","start":"1970-01-01T00:00:00.000002Z","end":4000}
{"id":"group"}
not json
{"name":"no id","start":1,"end":2}
{"id":"backwards","start":10,"end":5}
{"id":"half","start":10}
`
	p := NewParser(strings.NewReader(jsonl))
	records, err := p.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("ReadAll() got %d records, want 3", len(records))
	}
	if records[0].ID != "cpu0" || *records[0].Start != 1000 || *records[0].End != 5000 {
		t.Errorf("records[0] = %+v", records[0])
	}
	if got := *records[1].Start; got != 2000 {
		t.Errorf("RFC 3339 start = %d, want 2000", got)
	}
	if records[2].HasTime() {
		t.Error("grouping record should have no time")
	}

	errs := p.Errors()
	if len(errs) != 4 {
		t.Fatalf("Errors() = %v, want 4 entries", errs)
	}
	if !strings.HasPrefix(errs[0].Error(), "line 6:") {
		t.Errorf("first error %q should name line 6", errs[0])
	}
	if p.LineNum() != 9 {
		t.Errorf("LineNum() = %d, want 9", p.LineNum())
	}
}

func TestTime_Unmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    Time
		wantErr bool
	}{
		{`42`, 42, false},
		{`-7`, -7, false},
		{`"2026-01-24T10:00:00Z"`, Time(time.Date(2026, 1, 24, 10, 0, 0, 0, time.UTC).UnixNano()), false},
		{`"yesterday"`, 0, true},
		{`1.5`, 0, true},
	}
	for _, tt := range tests {
		var got Time
		err := got.UnmarshalJSON([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("UnmarshalJSON(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
