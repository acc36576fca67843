package timegraph

import "sync"

// Host is the serialized update context that owns a Controller. Every
// mutation and every listener delivery runs on it; the notifier timer only
// posts work to it.
type Host interface {
	Post(fn func())
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(fn func())

func (f HostFunc) Post(fn func()) { f(fn) }

// Loop is a Host backed by a single goroutine draining a queue of funcs.
// It serves headless users such as the sync relay and tests.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// NewLoop starts a loop goroutine.
func NewLoop() *Loop {
	l := &Loop{
		queue: make(chan func(), 256),
		done:  make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.done:
			return
		}
	}
}

// Post queues fn. It is dropped once the loop is closed.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Do runs fn on the loop and waits for it to return. It returns false if
// the loop was closed before fn ran.
func (l *Loop) Do(fn func()) bool {
	ran := make(chan struct{})
	l.Post(func() {
		fn()
		close(ran)
	})
	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

// Close stops the loop. Queued funcs that have not started are dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
	l.wg.Wait()
}
