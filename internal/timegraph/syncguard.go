package timegraph

// SyncGuard remembers the last window broadcast to range listeners so that
// an unchanged window is not announced twice, and knows the identity of its
// owner so self-originated signals can be ignored.
type SyncGuard struct {
	self      SourceID
	lastStart int64
	lastEnd   int64
}

// NewSyncGuard creates a guard for the given owner.
func NewSyncGuard(self SourceID) *SyncGuard {
	return &SyncGuard{self: self, lastStart: Unset, lastEnd: Unset}
}

// IsSelf reports whether a signal from src was produced by the owner.
func (g *SyncGuard) IsSelf(src SourceID) bool {
	if src == g.self {
		selfSignalsIgnoredTotal.Inc()
		return true
	}
	return false
}

// ShouldBroadcast reports whether (start, end) differs from the last
// broadcast window.
func (g *SyncGuard) ShouldBroadcast(start, end int64) bool {
	return start != g.lastStart || end != g.lastEnd
}

// Record stores (start, end) as the last broadcast window.
func (g *SyncGuard) Record(start, end int64) {
	g.lastStart = start
	g.lastEnd = end
}

// Last returns the last broadcast window.
func (g *SyncGuard) Last() Window {
	return Window{Start: g.lastStart, End: g.lastEnd}
}
