package session

import "errors"

var (
	// ErrBackendLocked is returned when registering or selecting a backend
	// after the active backend has already been locked in.
	ErrBackendLocked = errors.New("session backend already selected")
	// ErrUnknownBackend is returned when selecting a backend name that was
	// never registered.
	ErrUnknownBackend = errors.New("unknown session backend")
	// ErrNoBackend is returned when using the manager before any backend
	// has been selected.
	ErrNoBackend = errors.New("no session backend selected")

	// ErrNotFound is returned by a store when no session exists for an id.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned by the manager when a session is absent or
	// past its expiration. Callers should start a new session.
	ErrExpired = errors.New("session has expired")

	// ErrCorruptedFile is returned when a persisted session file cannot be
	// parsed back into a session.
	ErrCorruptedFile = errors.New("corrupted session file")
	// ErrSaveSession is returned when persisting a session fails.
	ErrSaveSession = errors.New("failed to save session")
	// ErrLoadSession is returned when reading a persisted session fails.
	ErrLoadSession = errors.New("failed to load session")
)
