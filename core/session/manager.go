package session

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionIDPrefix tags generated identifiers so they are recognizable in
// logs and cookies.
const sessionIDPrefix = "ws"

// Manager is the single point of entry for session lifecycle operations.
// It holds a registry of named backend constructors and locks in exactly
// one active backend for its lifetime: the first Use call wins, and any
// later attempt to register or switch backends is a configuration error.
// Switching backends mid-run would silently orphan existing sessions.
//
// A Manager is explicitly constructed state, not an ambient singleton;
// the host application creates it at startup and calls Close at
// shutdown.
type Manager struct {
	mu       sync.Mutex
	backends map[string]StoreConstructor
	store    Store
	backend  string
	closed   bool

	logger *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}

// NewManager creates a manager with an empty backend registry.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		backends: make(map[string]StoreConstructor),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a named backend constructor. Registration is only valid
// during startup configuration: once a backend has been selected via
// Use, Register returns ErrBackendLocked.
func (m *Manager) Register(name string, ctor StoreConstructor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrBackendLocked
	}
	if m.store != nil {
		return errors.Join(ErrBackendLocked,
			fmt.Errorf("cannot register backend %q after %q was selected", name, m.backend))
	}
	m.backends[name] = ctor
	return nil
}

// Use selects the active backend for the lifetime of the manager. The
// first caller wins and installs the backend; any subsequent call
// returns ErrBackendLocked. Selecting an unregistered name returns
// ErrUnknownBackend.
func (m *Manager) Use(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrBackendLocked
	}
	if m.store != nil {
		return errors.Join(ErrBackendLocked,
			fmt.Errorf("backend is already set to %q", m.backend))
	}
	ctor, ok := m.backends[name]
	if !ok {
		return errors.Join(ErrUnknownBackend, fmt.Errorf("backend %q is not registered", name))
	}
	store, err := ctor()
	if err != nil {
		return err
	}
	m.store = store
	m.backend = name
	m.logger.Info("session backend selected", slog.String("backend", name))
	return nil
}

// Backend returns the active backend name, or an empty string when none
// has been selected yet.
func (m *Manager) Backend() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend
}

// Create starts a new session with a freshly generated identifier.
func (m *Manager) Create(timeout time.Duration) (*Session, error) {
	store, err := m.activeStore()
	if err != nil {
		return nil, err
	}
	return store.Create(newSessionID(), timeout)
}

// Resume retrieves an existing session by id. An absent id and an
// expired session both surface as ErrExpired: callers are expected to
// start a new session, not fail the request.
func (m *Manager) Resume(id string, timeout time.Duration) (*Session, error) {
	store, err := m.activeStore()
	if err != nil {
		return nil, err
	}
	sess, err := store.Open(id, timeout)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrExpired
		}
		return nil, err
	}
	if sess.IsExpired() {
		return nil, ErrExpired
	}
	return sess, nil
}

// Exists reports whether a session with the given id is stored in the
// active backend.
func (m *Manager) Exists(id string) bool {
	store, err := m.activeStore()
	if err != nil {
		return false
	}
	return store.Exists(id)
}

// Delete removes the session with the given id from the active backend.
func (m *Manager) Delete(id string) error {
	store, err := m.activeStore()
	if err != nil {
		return err
	}
	return store.Delete(id)
}

// Close tears down the backend registry and the active backend. The
// manager is unusable afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.backends = nil
	if m.store == nil {
		return nil
	}
	return m.store.Close()
}

func (m *Manager) activeStore() (Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil || m.closed {
		return nil, ErrNoBackend
	}
	return m.store, nil
}

// newSessionID generates a high-entropy identifier: three UUIDs with
// separators stripped behind a short prefix. Chosen for collision
// resistance rather than compactness; callers must treat the result as
// opaque.
func newSessionID() string {
	var b strings.Builder
	b.Grow(len(sessionIDPrefix) + 3*32)
	b.WriteString(sessionIDPrefix)
	for range 3 {
		id := uuid.New()
		b.WriteString(hex.EncodeToString(id[:]))
	}
	return b.String()
}
