// Package session provides process-wide, pluggable server-side session
// storage keyed by an opaque identifier.
//
// Sessions carry a string-keyed item map, an idle timeout, and a
// second-precision expiration instant. Every session handed to a caller
// is a detached copy: reads never observe concurrent writes by other
// holders of the same id, and writes stay private until ApplyChanges
// persists the snapshot back into the backend (last writer wins).
//
// # Backends
//
// Two backends ship with the package:
//
//   - MemoryStore: a mutex-guarded in-process map with lazy expiration
//     sweeping, triggered on access rather than by a background timer.
//   - FileStore: one file per session under a directory derived from the
//     program name, with all I/O serialized by a store-wide lock.
//
// Additional backends implement the Store interface and are wired in
// through the Manager's registry.
//
// # Manager
//
// The Manager is the single entry point the request layer talks to. It
// is configured once at startup: register backends, then select exactly
// one with Use. The selection is final; registering or switching after
// that is a configuration error.
//
//	manager, err := session.NewManagerFromConfig(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer manager.Close()
//
//	sess, err := manager.Resume(id, 30*time.Minute)
//	if errors.Is(err, session.ErrExpired) {
//		sess, err = manager.Create(30 * time.Minute)
//	}
//	if err != nil {
//		return err
//	}
//
//	sess.Set("theme", "dark")
//	if err := sess.ApplyChanges(); err != nil {
//		return err
//	}
//
// Resume reports an absent id and an expired session the same way,
// ErrExpired, so the request layer can transparently issue a fresh
// session instead of failing the request.
package session
