// Package ledger implements the append-only, hash-chained history of state
// transitions. Every entry is bound to its predecessor by the SHA-256
// digest of the predecessor's after-state, so any historical state can be
// reconstructed and the whole chain can be verified for tampering in a
// single linear pass.
package ledger

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/sentinelcore/core/pkg/state"
)

// LedgerEntry is one immutable, hash-chained record. Entries are never
// updated or deleted once appended.
type LedgerEntry struct {
	ID           uuid.UUID
	Sequence     uint64
	Transition   Transition
	StateHash    string
	PreviousHash *string
	RecordedAt   time.Time
}

// Ledger is an append-only ordered list of transitions with per-entry hash
// chaining. Append and sequence assignment are serialized on a single
// writer lock; reads take the reader lock and may run concurrently with
// each other but not with an append.
type Ledger struct {
	mu        sync.RWMutex
	entries   []LedgerEntry
	snapshots map[string]state.Snapshot // state_hash -> after-state, for O(1) retrieval
	clock     func() time.Time
	logger    *slog.Logger
	limiter   *rate.Limiter
}

// Option configures a Ledger at construction time.
type Option func(*Ledger)

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

// WithLogger attaches a structured logger. Debug-level records are emitted
// on every append; warn-level records on integrity failures. A nil logger
// (the default) disables logging entirely.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithAppendLimiter caps the sustained rate of Record calls, guarding
// against unbounded ledger growth from a runaway caller. There is no limit
// by default. This is a defensive resource control, not part of the
// invariant-checking contract: a limited append returns an error, never a
// silently dropped entry.
func WithAppendLimiter(r rate.Limit, burst int) Option {
	return func(l *Ledger) { l.limiter = rate.NewLimiter(r, burst) }
}

// New creates an empty Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		entries:   make([]LedgerEntry, 0),
		snapshots: make(map[string]state.Snapshot),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends transition to the ledger, assigns the next sequence
// number, computes the state hash of transition.To, and chains it to the
// previous entry's state hash. It returns the new entry's id.
func (l *Ledger) Record(t Transition) (uuid.UUID, error) {
	if l.limiter != nil && !l.limiter.Allow() {
		return uuid.Nil, fmt.Errorf("ledger: append rate limit exceeded")
	}

	hash, err := HashState(t.To)
	if err != nil {
		return uuid.Nil, fmt.Errorf("ledger: hash after-state: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	seq := uint64(len(l.entries)) + 1
	var prevHash *string
	if len(l.entries) > 0 {
		ph := l.entries[len(l.entries)-1].StateHash
		prevHash = &ph
	}

	entry := LedgerEntry{
		ID:           uuid.New(),
		Sequence:     seq,
		Transition:   t,
		StateHash:    hash,
		PreviousHash: prevHash,
		RecordedAt:   l.clock(),
	}
	l.entries = append(l.entries, entry)
	l.snapshots[hash] = t.To

	if l.logger != nil {
		l.logger.Debug("ledger append",
			slog.Uint64("sequence", seq),
			slog.String("entry_id", entry.ID.String()),
			slog.String("state_hash", hash),
		)
	}

	return entry.ID, nil
}

// VerifyIntegrity walks every entry in sequence order and checks that
// sequence numbers are gap-free, the previous-hash chain is unbroken, and
// each entry's stored state hash matches a fresh recomputation from its
// transition. Any single mismatch fails the whole check.
func (l *Ledger) VerifyIntegrity() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i, entry := range l.entries {
		if entry.Sequence != uint64(i+1) {
			l.warn("sequence mismatch", i, entry)
			return false
		}
		if i == 0 {
			if entry.PreviousHash != nil {
				l.warn("unexpected previous_hash on first entry", i, entry)
				return false
			}
		} else {
			prev := l.entries[i-1]
			if entry.PreviousHash == nil || *entry.PreviousHash != prev.StateHash {
				l.warn("previous_hash chain broken", i, entry)
				return false
			}
		}
		recomputed, err := HashState(entry.Transition.To)
		if err != nil || recomputed != entry.StateHash {
			l.warn("state hash mismatch", i, entry)
			return false
		}
	}
	return true
}

func (l *Ledger) warn(msg string, index int, entry LedgerEntry) {
	if l.logger == nil {
		return
	}
	l.logger.Warn(msg,
		slog.Int("index", index),
		slog.String("entry_id", entry.ID.String()),
		slog.Uint64("sequence", entry.Sequence),
	)
}

// Len returns the number of entries currently in the ledger.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// ByID returns the entry with the given id.
func (l *Ledger) ByID(id uuid.UUID) (LedgerEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return LedgerEntry{}, false
}

// BySequence returns the 1-based sequence entry.
func (l *Ledger) BySequence(seq uint64) (LedgerEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if seq == 0 || seq > uint64(len(l.entries)) {
		return LedgerEntry{}, false
	}
	return l.entries[seq-1], true
}

// ByTimeRange returns every entry recorded within [from, to], inclusive,
// in sequence order.
func (l *Ledger) ByTimeRange(from, to time.Time) []LedgerEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []LedgerEntry
	for _, e := range l.entries {
		if !e.RecordedAt.Before(from) && !e.RecordedAt.After(to) {
			out = append(out, e)
		}
	}
	return out
}

// LatestState returns the after-state of the most recently appended entry.
func (l *Ledger) LatestState() (state.Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return state.Snapshot{}, false
	}
	return l.entries[len(l.entries)-1].Transition.To, true
}

// StateAtSequence returns the after-state recorded at the given sequence
// number.
func (l *Ledger) StateAtSequence(seq uint64) (state.Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if seq == 0 || seq > uint64(len(l.entries)) {
		return state.Snapshot{}, false
	}
	return l.entries[seq-1].Transition.To, true
}

// StateByHash retrieves the snapshot stashed under a state hash in O(1),
// independent of sequence lookup.
func (l *Ledger) StateByHash(hash string) (state.Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.snapshots[hash]
	return s, ok
}

// ReplayRange returns the inclusive slice of entries from sequence from to
// sequence to, in order. It is an error for the range to be empty, reversed,
// or to extend past the tail of the ledger.
func (l *Ledger) ReplayRange(from, to uint64) ([]LedgerEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if from == 0 || to == 0 || from > to {
		return nil, fmt.Errorf("ledger: invalid replay range [%d, %d]", from, to)
	}
	if to > uint64(len(l.entries)) {
		return nil, fmt.Errorf("ledger: replay range end %d exceeds ledger length %d", to, len(l.entries))
	}

	out := make([]LedgerEntry, to-from+1)
	copy(out, l.entries[from-1:to])
	return out, nil
}
