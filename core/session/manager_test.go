package session_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webstack-go/websession/core/session"
)

func memoryBackend(opts ...session.MemoryOption) session.StoreConstructor {
	return func() (session.Store, error) {
		return session.NewMemoryStore(opts...), nil
	}
}

func newMemoryManager(t *testing.T, opts ...session.MemoryOption) *session.Manager {
	t.Helper()
	m := session.NewManager()
	require.NoError(t, m.Register(session.BackendMemory, memoryBackend(opts...)))
	require.NoError(t, m.Use(session.BackendMemory))
	return m
}

func TestManager_BackendLock(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	require.NoError(t, m.Register("memory", memoryBackend()))
	require.NoError(t, m.Register("file", func() (session.Store, error) {
		return session.NewFileStore(session.WithSessionDir(t.TempDir()))
	}))

	require.NoError(t, m.Use("memory"))
	assert.Equal(t, "memory", m.Backend())

	// The first caller wins; switching afterwards is a configuration error.
	err := m.Use("file")
	require.ErrorIs(t, err, session.ErrBackendLocked)
	assert.Equal(t, "memory", m.Backend())

	// Even re-selecting the same backend is rejected.
	require.ErrorIs(t, m.Use("memory"), session.ErrBackendLocked)
}

func TestManager_RegisterAfterLock(t *testing.T) {
	t.Parallel()

	m := newMemoryManager(t)
	err := m.Register("late", memoryBackend())
	require.ErrorIs(t, err, session.ErrBackendLocked)
}

func TestManager_UseUnknownBackend(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	err := m.Use("redis")
	require.ErrorIs(t, err, session.ErrUnknownBackend)
	assert.Empty(t, m.Backend())
}

func TestManager_NoBackendSelected(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	require.NoError(t, m.Register("memory", memoryBackend()))

	_, err := m.Create(time.Hour)
	require.ErrorIs(t, err, session.ErrNoBackend)
	_, err = m.Resume("some-id", time.Hour)
	require.ErrorIs(t, err, session.ErrNoBackend)
	assert.False(t, m.Exists("some-id"))
	require.ErrorIs(t, m.Delete("some-id"), session.ErrNoBackend)
}

func TestManager_CreateGeneratesOpaqueIDs(t *testing.T) {
	t.Parallel()

	m := newMemoryManager(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		sess, err := m.Create(time.Hour)
		require.NoError(t, err)

		assert.Len(t, sess.ID, 98)
		assert.True(t, strings.HasPrefix(sess.ID, "ws"))
		assert.False(t, seen[sess.ID], "ids must be unique")
		seen[sess.ID] = true
		assert.True(t, m.Exists(sess.ID))
	}
}

func TestManager_ResumeUnknownID(t *testing.T) {
	t.Parallel()

	m := newMemoryManager(t)
	_, err := m.Resume("wsdeadbeef", time.Hour)
	require.ErrorIs(t, err, session.ErrExpired,
		"an unknown id must surface as expired, never as a usable session")
}

func TestManager_ResumeExpiredSession(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	// A long sweep interval keeps the expired entry in the registry, so
	// Resume exercises the expiry check rather than the sweep.
	m := newMemoryManager(t,
		session.WithMemoryClock(clock.Now),
		session.WithSweepInterval(24*time.Hour),
	)

	sess, err := m.Create(time.Minute)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = m.Resume(sess.ID, time.Minute)
	require.ErrorIs(t, err, session.ErrExpired)
}

func TestManager_ResumeLiveSession(t *testing.T) {
	t.Parallel()

	m := newMemoryManager(t)

	created, err := m.Create(time.Hour)
	require.NoError(t, err)
	created.Set("k", "v")
	require.NoError(t, created.ApplyChanges())

	resumed, err := m.Resume(created.ID, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resumed.ID)
	assert.Equal(t, "v", resumed.Get("k"))
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m := newMemoryManager(t)
	sess, err := m.Create(time.Hour)
	require.NoError(t, err)

	require.NoError(t, m.Delete(sess.ID))
	assert.False(t, m.Exists(sess.ID))
	_, err = m.Resume(sess.ID, time.Hour)
	require.ErrorIs(t, err, session.ErrExpired)
}

func TestManager_Close(t *testing.T) {
	t.Parallel()

	m := newMemoryManager(t)
	_, err := m.Create(time.Hour)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "closing twice is fine")

	_, err = m.Create(time.Hour)
	require.ErrorIs(t, err, session.ErrNoBackend)
	require.ErrorIs(t, m.Use("memory"), session.ErrBackendLocked)
	require.ErrorIs(t, m.Register("x", memoryBackend()), session.ErrBackendLocked)
}

func TestNewManagerFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("memory backend", func(t *testing.T) {
		t.Parallel()

		m, err := session.NewManagerFromConfig(session.Config{
			Backend:       session.BackendMemory,
			SweepInterval: time.Minute,
		})
		require.NoError(t, err)
		defer m.Close()
		assert.Equal(t, session.BackendMemory, m.Backend())

		sess, err := m.Create(time.Hour)
		require.NoError(t, err)
		assert.True(t, m.Exists(sess.ID))
	})

	t.Run("file backend", func(t *testing.T) {
		t.Parallel()

		m, err := session.NewManagerFromConfig(session.Config{
			Backend: session.BackendFile,
			Dir:     t.TempDir(),
		})
		require.NoError(t, err)
		defer m.Close()
		assert.Equal(t, session.BackendFile, m.Backend())

		sess, err := m.Create(time.Hour)
		require.NoError(t, err)
		assert.True(t, m.Exists(sess.ID))
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewManagerFromConfig(session.Config{Backend: "redis"})
		require.ErrorIs(t, err, session.ErrUnknownBackend)
	})
}
