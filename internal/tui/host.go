package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"
)

// hostMsg carries a posted function into Update.
type hostMsg func()

// ProgramHost runs controller work inside a bubbletea program's Update.
// Post may be called from any goroutine; the function is delivered as a
// message and executed by the model that called listen.
type ProgramHost struct {
	ch        chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewProgramHost creates a host. Nothing runs until the model starts
// listening.
func NewProgramHost() *ProgramHost {
	return &ProgramHost{
		ch:   make(chan func(), 64),
		done: make(chan struct{}),
	}
}

// Post queues fn. It blocks while the queue is full and drops fn once the
// host is closed.
func (h *ProgramHost) Post(fn func()) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.ch <- fn:
	case <-h.done:
	}
}

// Close stops delivery. Pending functions are discarded.
func (h *ProgramHost) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// listen returns a command that waits for the next posted function.
// The model re-issues it after handling each hostMsg.
func (h *ProgramHost) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-h.ch:
			select {
			case <-h.done:
				return nil
			default:
			}
			return hostMsg(fn)
		case <-h.done:
			return nil
		}
	}
}
