package session

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/webstack-go/websession/core/logger"
)

// DefaultSweepInterval is the minimum time between two lazy expiration
// sweeps of a MemoryStore.
const DefaultSweepInterval = time.Minute

// MemoryStore keeps sessions in a process-local map guarded by a mutex.
// Sessions are cloned on the way in and on the way out, so callers never
// share mutable state with the registry.
//
// Expired entries are reclaimed lazily: each operation that acquires the
// map first evicts expired sessions, but at most once per sweep
// interval. Memory growth is therefore bounded by access frequency, not
// wall clock; an idle process reclaims nothing until the next access.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	lastSweep time.Time

	sweepInterval time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithSweepInterval sets the minimum time between expiration sweeps.
func WithSweepInterval(interval time.Duration) MemoryOption {
	return func(ms *MemoryStore) {
		if interval > 0 {
			ms.sweepInterval = interval
		}
	}
}

// WithMemoryClock sets the time source. Intended for tests that need to
// simulate the passage of time.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// WithMemoryLogger sets the logger for sweep reporting.
func WithMemoryLogger(log *slog.Logger) MemoryOption {
	return func(ms *MemoryStore) {
		if log != nil {
			ms.logger = log
		}
	}
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	ms := &MemoryStore{
		sessions:      make(map[string]*Session),
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ms)
	}
	ms.lastSweep = ms.now()
	return ms
}

// Create builds a session with the given id and timeout, touches it, and
// registers it. The registry entry and the returned session are
// independent objects from this point on.
func (ms *MemoryStore) Create(id string, timeout time.Duration) (*Session, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sweepLocked()

	sess := newSession(id, timeout, ms, ms.now)
	sess.Touch()
	ms.sessions[id] = sess
	return sess.Clone(), nil
}

// Open looks up id, updates the stored session's timeout, and returns a
// detached clone. Returns ErrNotFound when the id is absent.
func (ms *MemoryStore) Open(id string, timeout time.Duration) (*Session, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sweepLocked()

	sess, ok := ms.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.Timeout = timeout
	return sess.Clone(), nil
}

// Save replaces the registry entry with a clone of the given session.
// Whole-value overwrite, not a merge: the last writer wins.
func (ms *MemoryStore) Save(sess *Session) error {
	if sess == nil {
		return nil
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sweepLocked()

	ms.sessions[sess.ID] = sess.Clone()
	return nil
}

// Exists reports whether a session with the given id is registered.
func (ms *MemoryStore) Exists(id string) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sweepLocked()

	_, ok := ms.sessions[id]
	return ok
}

// Delete removes the session with the given id, if present.
func (ms *MemoryStore) Delete(id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sweepLocked()

	delete(ms.sessions, id)
	return nil
}

// Close drops all registered sessions.
func (ms *MemoryStore) Close() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	clear(ms.sessions)
	return nil
}

// sweepLocked evicts expired sessions if at least the sweep interval has
// elapsed since the last sweep. Callers must hold the mutex.
func (ms *MemoryStore) sweepLocked() {
	now := ms.now()
	if now.Sub(ms.lastSweep) < ms.sweepInterval {
		return
	}
	ms.lastSweep = now

	evicted := 0
	for id, sess := range ms.sessions {
		if sess.IsExpired() {
			delete(ms.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		ms.logger.Debug("evicted expired sessions",
			logger.Component("session.memory"),
			logger.Count(evicted),
		)
	}
}
