package progress

import (
	"sync"
	"sync/atomic"
	"time"
)

// Phase represents the current phase of a scan
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseEnumerating
	PhasePartialHash
	PhaseFullHash
	PhaseComplete
	PhaseCancelled
)

// String returns a human-readable phase name
func (p Phase) String() string {
	switch p {
	case PhaseEnumerating:
		return "enumerating"
	case PhasePartialHash:
		return "partial hashing"
	case PhaseFullHash:
		return "full hashing"
	case PhaseComplete:
		return "complete"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Snapshot is a point-in-time copy of scan progress, safe to read from any
// goroutine while the scan is running.
type Snapshot struct {
	Phase         Phase
	FilesFound    int64 // files that passed enumeration filters
	Candidates    int64 // files in multi-member size buckets
	PartialHashed int64
	FullHashed    int64
	BytesHashed   int64
	BytesExpected int64 // upper-bound estimate of bytes to hash; 0 = unknown
	Warnings      int64
	Elapsed       time.Duration
}

// Tracker holds live counters updated by scan workers. All counters are
// atomic so workers never contend on a lock to report progress.
type Tracker struct {
	start         time.Time
	phase         atomic.Int32
	filesFound    atomic.Int64
	candidates    atomic.Int64
	bytesExpected atomic.Int64
	partialHashed atomic.Int64
	fullHashed    atomic.Int64
	bytesHashed   atomic.Int64
	warnings      atomic.Int64

	mu        sync.Mutex
	listeners []chan Snapshot
}

// NewTracker creates a tracker with its clock started
func NewTracker() *Tracker {
	return &Tracker{start: time.Now()}
}

// SetPhase records a phase transition and notifies listeners
func (t *Tracker) SetPhase(p Phase) {
	t.phase.Store(int32(p))
	t.publish()
}

// AddFileFound records an enumerated file
func (t *Tracker) AddFileFound() {
	t.filesFound.Add(1)
}

// AddCandidates records files that survived size bucketing
func (t *Tracker) AddCandidates(n int64) {
	t.candidates.Add(n)
	t.publish()
}

// SetBytesExpected records the upper-bound estimate of bytes the hash
// phases may read, known once bucketing finishes
func (t *Tracker) SetBytesExpected(n int64) {
	t.bytesExpected.Store(n)
}

// AddPartialHashed records a completed prefix hash and the bytes it read
func (t *Tracker) AddPartialHashed(bytes int64) {
	t.partialHashed.Add(1)
	t.bytesHashed.Add(bytes)
	t.publish()
}

// AddFullHashed records a completed full-content hash and the bytes it read
func (t *Tracker) AddFullHashed(bytes int64) {
	t.fullHashed.Add(1)
	t.bytesHashed.Add(bytes)
	t.publish()
}

// AddWarning records a per-path warning
func (t *Tracker) AddWarning() {
	t.warnings.Add(1)
}

// Snapshot returns the current progress without blocking workers
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Phase:         Phase(t.phase.Load()),
		FilesFound:    t.filesFound.Load(),
		Candidates:    t.candidates.Load(),
		PartialHashed: t.partialHashed.Load(),
		FullHashed:    t.fullHashed.Load(),
		BytesHashed:   t.bytesHashed.Load(),
		BytesExpected: t.bytesExpected.Load(),
		Warnings:      t.warnings.Load(),
		Elapsed:       time.Since(t.start),
	}
}

// Subscribe returns a channel that receives progress snapshots
func (t *Tracker) Subscribe() <-chan Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan Snapshot, 16)
	t.listeners = append(t.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (t *Tracker) Unsubscribe(ch <-chan Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, listener := range t.listeners {
		if listener == ch {
			close(listener)
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

// publish sends the current snapshot to all listeners without blocking
func (t *Tracker) publish() {
	t.mu.Lock()
	listeners := make([]chan Snapshot, len(t.listeners))
	copy(listeners, t.listeners)
	t.mu.Unlock()

	if len(listeners) == 0 {
		return
	}

	snap := t.Snapshot()
	for _, listener := range listeners {
		select {
		case listener <- snap:
		default:
			// Skip if channel is full
		}
	}
}
