package timegraph

import (
	"strings"
	"sync"
	"time"

	"github.com/wethinkt/go-timegraph/internal/tuilog"
)

const (
	// DefaultSettleDelay is the quiet period after the last change before
	// listeners are told about it.
	DefaultSettleDelay = 400 * time.Millisecond

	// DefaultPollInterval is the shortest re-arm delay of the settle timer.
	DefaultPollInterval = 10 * time.Millisecond
)

// Flags records which kinds of change are waiting to be delivered.
type Flags uint8

const (
	FlagSelectionChanged Flags = 1 << iota
	FlagRangeUpdated
	FlagTimeSelected
)

// Has reports whether all bits of f are set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

func (fl Flags) String() string {
	var parts []string
	if fl.Has(FlagSelectionChanged) {
		parts = append(parts, "selection")
	}
	if fl.Has(FlagRangeUpdated) {
		parts = append(parts, "range")
	}
	if fl.Has(FlagTimeSelected) {
		parts = append(parts, "time")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Notifier coalesces change marks into one flush per settle period. The
// first mark arms a timer; later marks only move the last-activity time.
// When the timer fires before the quiet period has elapsed it re-arms for
// the remainder, otherwise it posts a single flush to the host. Each armed
// timer carries a generation so a superseded or closed notifier drops it.
type Notifier struct {
	host   Host
	settle time.Duration
	poll   time.Duration
	flush  func(Flags)

	mu        sync.Mutex
	flags     Flags
	firstMark time.Time
	lastMark  time.Time
	gen       uint64
	timer     *time.Timer
	closed    bool
}

// NewNotifier creates a notifier that calls flush on host. Zero durations
// select the defaults.
func NewNotifier(host Host, settle, poll time.Duration, flush func(Flags)) *Notifier {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Notifier{host: host, settle: settle, poll: poll, flush: flush}
}

// Mark records a change and arms the timer if none is pending.
func (n *Notifier) Mark(f Flags) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || f == 0 {
		return
	}
	marksTotal.WithLabelValues(f.String()).Inc()
	now := time.Now()
	n.flags |= f
	n.lastMark = now
	if n.timer != nil {
		return
	}
	n.firstMark = now
	n.gen++
	gen := n.gen
	n.timer = time.AfterFunc(n.settle, func() { n.fire(gen) })
}

// Pending reports whether any bit of f is waiting to be delivered.
func (n *Notifier) Pending(f Flags) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.flags&f != 0
}

// Flush delivers pending flags immediately on the caller, which must be the
// host context, and cancels the armed timer.
func (n *Notifier) Flush() {
	n.mu.Lock()
	if n.closed || n.flags == 0 {
		n.mu.Unlock()
		return
	}
	flags := n.take()
	n.mu.Unlock()
	n.deliver(flags)
}

// Close discards pending flags and any timer in flight.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.take()
}

// fire runs on the timer goroutine. It never touches controller state.
func (n *Notifier) fire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || n.closed {
		n.mu.Unlock()
		staleFlushesTotal.Inc()
		return
	}
	if quiet := time.Since(n.lastMark); quiet < n.settle {
		n.timer.Reset(max(n.settle-quiet, n.poll))
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()

	n.host.Post(func() { n.flushGen(gen) })
}

// flushGen runs on the host context.
func (n *Notifier) flushGen(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || n.closed {
		n.mu.Unlock()
		staleFlushesTotal.Inc()
		tuilog.Log.Debug("Discarding stale viewport flush", "generation", gen)
		return
	}
	flags := n.take()
	n.mu.Unlock()
	n.deliver(flags)
}

// take clears the pending state and invalidates the current generation.
// Callers hold n.mu.
func (n *Notifier) take() Flags {
	flags := n.flags
	if !n.firstMark.IsZero() && flags != 0 {
		settleSeconds.Observe(time.Since(n.firstMark).Seconds())
	}
	n.flags = 0
	n.firstMark = time.Time{}
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	return flags
}

func (n *Notifier) deliver(flags Flags) {
	if flags == 0 || n.flush == nil {
		return
	}
	flushesTotal.Inc()
	tuilog.Log.Debug("Viewport flush", "flags", flags)
	n.flush(flags)
}
