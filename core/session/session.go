package session

import (
	"maps"
	"slices"
	"time"
)

// Session is a detached unit of per-client state. Values returned from a
// store share no mutable state with the store's internal record: callers
// may read and write items without synchronization, and changes become
// visible to other holders of the same ID only after ApplyChanges.
type Session struct {
	// ID is the opaque session identifier, immutable after creation.
	ID string

	// Timeout is the idle timeout after which the session expires.
	// Zero means the session never expires. Whole minutes are the
	// supported granularity; see FileStore for the reason.
	Timeout time.Duration

	// ExpiresAt is the expiration instant, truncated to whole seconds.
	// The zero value means no expiration. It is recomputed by Touch and
	// must not be set directly.
	ExpiresAt time.Time

	items map[string]string
	dirty bool

	store Store
	now   func() time.Time
}

// newSession builds a session bound to its owning store. The clock is
// inherited from the store so simulated time flows through expiry checks.
func newSession(id string, timeout time.Duration, store Store, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		ID:      id,
		Timeout: timeout,
		items:   make(map[string]string),
		store:   store,
		now:     now,
	}
}

// Get returns the stored value for key, or an empty string when absent.
func (s *Session) Get(key string) string {
	if s == nil {
		return ""
	}
	return s.items[key]
}

// Set stores value under key and marks the session as modified.
func (s *Session) Set(key, value string) {
	if s == nil {
		return
	}
	if s.items == nil {
		s.items = make(map[string]string)
	}
	s.items[key] = value
	s.dirty = true
}

// Keys returns the present item keys. Order is not significant.
func (s *Session) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Collect(maps.Keys(s.items))
}

// Touch marks the session as modified and recomputes ExpiresAt as
// now+Timeout, truncated to the whole second. A zero Timeout clears
// ExpiresAt, meaning the session never expires.
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.dirty = true
	if s.Timeout <= 0 {
		s.ExpiresAt = time.Time{}
		return
	}
	s.ExpiresAt = s.timeNow().Add(s.Timeout).Truncate(time.Second)
}

// IsExpired reports whether ExpiresAt is set and strictly before now.
// Now is truncated to the same second precision for a stable comparison.
// A session with no expiration is never expired.
func (s *Session) IsExpired() bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return s.ExpiresAt.Before(s.timeNow().Truncate(time.Second))
}

// IsModified reports whether the session has changes pending persistence.
func (s *Session) IsModified() bool {
	return s != nil && s.dirty
}

// ApplyChanges persists the session through its owning store. It is a
// no-op when the session is unmodified, unbound, or nil. On success the
// modified flag is cleared.
func (s *Session) ApplyChanges() error {
	if s == nil || !s.dirty || s.store == nil {
		return nil
	}
	if err := s.store.Save(s); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Clone returns a fully independent deep copy. The copy keeps the store
// binding so ApplyChanges keeps working, but mutating either copy's
// items never affects the other.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.items = maps.Clone(s.items)
	return &c
}

// Stop invokes the owning store's early-termination hook, if it has one.
func (s *Session) Stop() {
	if s == nil || s.store == nil {
		return
	}
	if st, ok := s.store.(Stopper); ok {
		st.StopSession(s)
	}
}

func (s *Session) timeNow() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
