package syncbus

import (
	"github.com/wethinkt/go-timegraph/internal/timegraph"
)

// Lookup resolves an entry id received from another view. It may return
// nil for unknown ids.
type Lookup func(id string) timegraph.Entry

// Attach wires c to t in both directions. The controller's flushed events
// are published as signals, and signals from t are applied to c on host,
// the controller's update context. Signals c published itself come back
// and are dropped by the controller. The returned func detaches.
func Attach(c *timegraph.Controller, host timegraph.Host, t Transport, lookup Lookup) func() {
	if lookup == nil {
		lookup = func(string) timegraph.Entry { return nil }
	}

	removeRange := c.OnTimeRangeUpdated(func(ev timegraph.RangeEvent) {
		t.Publish(Signal{Kind: KindRange, Source: ev.Source, Start: ev.Start, End: ev.End})
	})
	removeTime := c.OnTimeSelected(func(ev timegraph.TimeEvent) {
		kind := KindSelection
		var entry string
		if ev.Begin == ev.End {
			kind = KindTime
			entry = EntryID(c.SelectedEntry())
		}
		t.Publish(Signal{Kind: kind, Source: ev.Source, Start: ev.Begin, End: ev.End, Entry: entry})
	})
	removeSel := c.OnSelectionChanged(func(ev timegraph.SelectionEvent) {
		t.Publish(Signal{Kind: KindEntry, Source: ev.Source, Entry: EntryID(ev.Entry)})
	})

	signals, unsubscribe := t.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range signals {
			host.Post(func() { Apply(c, s, lookup) })
		}
	}()

	return func() {
		removeRange()
		removeTime()
		removeSel()
		unsubscribe()
		<-done
	}
}

// Apply feeds one inbound signal to c. It must run on c's host.
func Apply(c *timegraph.Controller, s Signal, lookup Lookup) {
	switch s.Kind {
	case KindRange:
		c.ApplyWindow(s.Source, s.Start, s.End)
	case KindTime:
		var e timegraph.Entry
		if s.Entry != "" && lookup != nil {
			e = lookup(s.Entry)
		}
		c.ApplySelectedTime(s.Source, e, s.Start)
	case KindSelection:
		c.ApplySelectionRange(s.Source, s.Start, s.End)
	case KindEntry:
		var e timegraph.Entry
		if s.Entry != "" && lookup != nil {
			e = lookup(s.Entry)
		}
		c.ApplySelectedEntry(s.Source, e)
	}
}

// EntryID returns the id of e when it is a *timegraph.Node, else "".
func EntryID(e timegraph.Entry) string {
	if n, ok := e.(*timegraph.Node); ok && n != nil {
		return n.ID
	}
	return ""
}
