package session

import "time"

// Store is the capability interface a session backend implements.
// Implementations must be safe for concurrent use; every Session they
// hand out must be detached from their internal records.
type Store interface {
	// Create builds a new session with the given id and timeout,
	// touches it, and makes it retrievable by id.
	Create(id string, timeout time.Duration) (*Session, error)

	// Open retrieves an existing session by id, applying the requested
	// timeout. Returns ErrNotFound when no such session exists.
	Open(id string, timeout time.Duration) (*Session, error)

	// Save persists the given session snapshot, overwriting whatever is
	// stored under its ID. Last writer wins. Called by ApplyChanges.
	Save(sess *Session) error

	// Exists reports whether a session with the given id is stored.
	Exists(id string) bool

	// Delete removes the session with the given id, if present.
	Delete(id string) error

	// Close releases backend-level state at process shutdown.
	Close() error
}

// StoreConstructor builds a backend instance when the Manager selects it
// via Use.
type StoreConstructor func() (Store, error)

// Stopper is an optional Store extension for backends that hold
// per-session resources needing early release. Session.Stop delegates
// here; stores without the hook make Stop a no-op.
type Stopper interface {
	StopSession(sess *Session)
}
