package timegraph

import (
	"sync"

	"github.com/google/uuid"
)

// SourceID identifies the originator of a change signal. Recipients compare
// it with their own ID to avoid re-applying their own broadcasts.
type SourceID string

// NewSourceID returns a fresh random source identity.
func NewSourceID() SourceID {
	return SourceID(uuid.NewString())
}

// SelectionEvent reports a change of the selected entry.
type SelectionEvent struct {
	Source SourceID
	Entry  Entry
}

// RangeEvent reports a new visible window.
type RangeEvent struct {
	Source SourceID
	Start  int64
	End    int64
}

// TimeEvent reports a new time selection.
type TimeEvent struct {
	Source SourceID
	Begin  int64
	End    int64
}

type (
	SelectionListener func(SelectionEvent)
	RangeListener     func(RangeEvent)
	TimeListener      func(TimeEvent)
)

// listenerSet is a registry that can be changed while a flush iterates a
// snapshot of it.
type listenerSet[F any] struct {
	mu     sync.RWMutex
	nextID int
	items  []listenerItem[F]
}

type listenerItem[F any] struct {
	id int
	fn F
}

func (s *listenerSet[F]) add(fn F) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.items = append(s.items, listenerItem[F]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, it := range s.items {
			if it.id == id {
				s.items = append(s.items[:i:i], s.items[i+1:]...)
				return
			}
		}
	}
}

func (s *listenerSet[F]) snapshot() []F {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]F, len(s.items))
	for i, it := range s.items {
		out[i] = it.fn
	}
	return out
}

func (s *listenerSet[F]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
