package session_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDetachedCopiesPreventRace verifies that clone semantics keep
// concurrent holders of the same session id from sharing mutable state.
// Run with -race.
func TestDetachedCopiesPreventRace(t *testing.T) {
	t.Parallel()

	m := newMemoryManager(t)

	seed, err := m.Create(time.Hour)
	require.NoError(t, err)
	require.NoError(t, seed.ApplyChanges())

	const numGoroutines = 100
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(n int) {
			defer wg.Done()

			// Each goroutine resumes its own detached copy, mutates it,
			// and persists it. No shared state, no locks needed here.
			sess, err := m.Resume(seed.ID, time.Hour)
			assert.NoError(t, err)

			sess.Set("worker", fmt.Sprintf("%d", n))
			sess.Touch()
			assert.NoError(t, sess.ApplyChanges())
		}(i)
	}
	wg.Wait()

	// Last persist wins: exactly one worker's write survives.
	final, err := m.Resume(seed.ID, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, final.Get("worker"))
}

// TestConcurrentLifecycle hammers every manager operation at once.
func TestConcurrentLifecycle(t *testing.T) {
	t.Parallel()

	m := newMemoryManager(t)

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()

			sess, err := m.Create(30 * time.Minute)
			assert.NoError(t, err)

			sess.Set("payload", "data")
			assert.NoError(t, sess.ApplyChanges())

			resumed, err := m.Resume(sess.ID, 30*time.Minute)
			assert.NoError(t, err)
			assert.Equal(t, "data", resumed.Get("payload"))

			assert.True(t, m.Exists(sess.ID))
			assert.NoError(t, m.Delete(sess.ID))
			assert.False(t, m.Exists(sess.ID))
		}()
	}
	wg.Wait()
}

// TestFileStoreConcurrentWrites exercises the store-wide I/O lock.
func TestFileStoreConcurrentWrites(t *testing.T) {
	t.Parallel()

	store, _ := newTestFileStore(t)

	const numGoroutines = 20
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(n int) {
			defer wg.Done()

			id := fmt.Sprintf("race-%d", n)
			sess, err := store.Create(id, time.Hour)
			assert.NoError(t, err)

			sess.Set("n", fmt.Sprintf("%d", n))
			assert.NoError(t, sess.ApplyChanges())
		}(i)
	}
	wg.Wait()

	for i := 0; i < numGoroutines; i++ {
		id := fmt.Sprintf("race-%d", i)
		sess, err := store.Open(id, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%d", i), sess.Get("n"))
	}
}
