// Package syncbus carries viewport changes between views that share one
// timeline: window moves, time selections and entry selections. Signals
// travel over an in-process Bus or, across processes, through a websocket
// relay.
package syncbus

import (
	"sync"

	"github.com/wethinkt/go-timegraph/internal/timegraph"
	"github.com/wethinkt/go-timegraph/internal/tuilog"
)

// Kind names the change a Signal carries.
type Kind string

const (
	KindRange     Kind = "range"     // visible window moved
	KindTime      Kind = "time"      // single instant selected
	KindSelection Kind = "selection" // time range selected
	KindEntry     Kind = "entry"     // entry selected
)

// Signal is one change broadcast by a view. Start and End hold the window
// for KindRange and the selection for KindTime and KindSelection. Entry is
// the entry id for KindEntry and, optionally, KindTime.
type Signal struct {
	Kind   Kind               `json:"kind"`
	Source timegraph.SourceID `json:"source"`
	Start  int64              `json:"start,omitempty"`
	End    int64              `json:"end,omitempty"`
	Entry  string             `json:"entry,omitempty"`
}

// Transport is anything signals can be published to and received from.
type Transport interface {
	Publish(Signal)
	Subscribe() (<-chan Signal, func())
}

const subscriberBuffer = 64

// Bus fans signals out to every subscriber in process.
type Bus struct {
	mu   sync.RWMutex
	subs []*subscriber
}

type subscriber struct {
	ch     chan Signal
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel receiving every published signal. Call the
// returned function to unsubscribe and close the channel.
func (b *Bus) Subscribe() (<-chan Signal, func()) {
	sub := &subscriber{ch: make(chan Signal, subscriberBuffer)}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	subscribersActive.Inc()

	unsub := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s == sub {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				if !s.closed {
					s.closed = true
					close(s.ch)
					subscribersActive.Dec()
				}
				return
			}
		}
	}
	return sub.ch, unsub
}

// Publish delivers s to every subscriber. Slow subscribers whose buffer is
// full miss the signal.
func (b *Bus) Publish(s Signal) {
	b.publish(s, nil)
}

// PublishExcept delivers s to every subscriber but the one reading from
// except, so a relay connection does not receive its own signals back.
func (b *Bus) PublishExcept(s Signal, except <-chan Signal) {
	b.publish(s, except)
}

func (b *Bus) publish(s Signal, except <-chan Signal) {
	signalsPublishedTotal.WithLabelValues(string(s.Kind)).Inc()

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if sub.closed || (except != nil && (<-chan Signal)(sub.ch) == except) {
			continue
		}
		select {
		case sub.ch <- s:
		default:
			signalsDroppedTotal.Inc()
			tuilog.Log.Warn("Dropping signal for slow subscriber", "kind", s.Kind, "source", s.Source)
		}
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
