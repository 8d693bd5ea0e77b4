package session

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/webstack-go/websession/core/logger"
)

// FileStore persists one file per session under a directory derived from
// the running program's name ("<program>_sessions" next to the
// executable, unless overridden). Files are loaded on access and fully
// rewritten on change.
//
// All file I/O goes through a single store-wide mutex. That is coarser
// than per-session locking and serializes every session write in the
// process; the scope of each hold is a single read or rewrite. Other
// processes writing the same directory are not coordinated.
//
// On-disk format: line 1 is the expiration instant in RFC 3339 (the zero
// time means no expiration), line 2 the timeout in whole minutes, then
// one "key=value" line per item with key and value percent-escaped.
// Because the header carries whole minutes, sub-minute timeouts are not
// representable and reload as "never expires".
type FileStore struct {
	mu  sync.Mutex
	dir string

	now    func() time.Time
	logger *slog.Logger
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithSessionDir overrides the session directory.
func WithSessionDir(dir string) FileOption {
	return func(fs *FileStore) {
		fs.dir = dir
	}
}

// WithFileClock sets the time source. Intended for tests that need to
// simulate the passage of time.
func WithFileClock(now func() time.Time) FileOption {
	return func(fs *FileStore) {
		if now != nil {
			fs.now = now
		}
	}
}

// WithFileLogger sets the logger used to report best-effort deletion
// failures.
func WithFileLogger(log *slog.Logger) FileOption {
	return func(fs *FileStore) {
		if log != nil {
			fs.logger = log
		}
	}
}

// NewFileStore creates a file-backed session store and ensures its
// directory exists.
func NewFileStore(opts ...FileOption) (*FileStore, error) {
	fs := &FileStore{
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(fs)
	}
	if fs.dir == "" {
		dir, err := defaultSessionDir()
		if err != nil {
			return nil, errors.Join(ErrSaveSession, err)
		}
		fs.dir = dir
	}
	if err := os.MkdirAll(fs.dir, 0o700); err != nil {
		return nil, errors.Join(ErrSaveSession, err)
	}
	return fs, nil
}

// defaultSessionDir derives "<program>_sessions" next to the executable.
func defaultSessionDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	return filepath.Join(filepath.Dir(exe), base+"_sessions"), nil
}

// Create builds a session with the given id and timeout, touches it, and
// writes it to disk immediately.
func (fs *FileStore) Create(id string, timeout time.Duration) (*Session, error) {
	sess := newSession(id, timeout, fs, fs.now)
	sess.Touch()

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.writeLocked(sess); err != nil {
		return nil, err
	}
	sess.dirty = false
	return sess, nil
}

// Open loads the session file for id, applying the requested timeout.
// Returns ErrNotFound when no file exists.
func (fs *FileStore) Open(id string, timeout time.Duration) (*Session, error) {
	path, err := fs.path(id)
	if err != nil {
		return nil, ErrNotFound
	}
	sess := newSession(id, timeout, fs, fs.now)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrLoadSession, err)
	}
	defer f.Close()

	if err := decodeSession(f, sess); err != nil {
		return nil, err
	}
	sess.Timeout = timeout
	return sess, nil
}

// Save touches the session, refreshing its expiration, and rewrites the
// whole file. Full overwrite, not an incremental append.
func (fs *FileStore) Save(sess *Session) error {
	if sess == nil {
		return nil
	}
	sess.Touch()

	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.writeLocked(sess)
}

// Exists reports whether a session file exists for the given id.
func (fs *FileStore) Exists(id string) bool {
	path, err := fs.path(id)
	if err != nil {
		return false
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, err = os.Stat(path)
	return err == nil
}

// Delete removes the session file if present. Deletion is best-effort:
// failures are logged and swallowed, never surfaced.
func (fs *FileStore) Delete(id string) error {
	path, err := fs.path(id)
	if err != nil {
		return nil
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		fs.logger.Warn("failed to delete session file",
			logger.Component("session.file"),
			logger.ID("session_id", id),
			logger.Error(err),
		)
	}
	return nil
}

// Close releases nothing beyond the mutex; session files outlive the
// process so they can be resumed after a restart.
func (fs *FileStore) Close() error {
	return nil
}

// path maps a session id to its file, rejecting ids that would escape
// the session directory.
func (fs *FileStore) path(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(fs.dir, id), nil
}

func (fs *FileStore) writeLocked(sess *Session) error {
	path, err := fs.path(sess.ID)
	if err != nil {
		return errors.Join(ErrSaveSession, err)
	}
	if err := os.WriteFile(path, encodeSession(sess), 0o600); err != nil {
		return errors.Join(ErrSaveSession, err)
	}
	return nil
}

// encodeSession serializes a session into the on-disk form. Keys are
// emitted in sorted order so identical sessions produce identical files.
func encodeSession(sess *Session) []byte {
	var b bytes.Buffer
	b.WriteString(sess.ExpiresAt.Format(time.RFC3339))
	b.WriteByte('\n')
	b.WriteString(strconv.Itoa(int(sess.Timeout / time.Minute)))
	b.WriteByte('\n')
	for _, key := range slices.Sorted(maps.Keys(sess.items)) {
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(sess.items[key]))
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// decodeSession populates sess from the on-disk form. Fewer than two
// header lines, an unparseable header, or an item line without a
// separator are data corruption, surfaced as ErrCorruptedFile.
func decodeSession(r io.Reader, sess *Session) error {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		return errors.Join(ErrCorruptedFile, errors.New("missing expiration header"))
	}
	expiresAt, err := time.Parse(time.RFC3339, sc.Text())
	if err != nil {
		return errors.Join(ErrCorruptedFile, err)
	}

	if !sc.Scan() {
		return errors.Join(ErrCorruptedFile, errors.New("missing timeout header"))
	}
	minutes, err := strconv.Atoi(sc.Text())
	if err != nil {
		return errors.Join(ErrCorruptedFile, err)
	}
	if minutes < 0 {
		return errors.Join(ErrCorruptedFile, fmt.Errorf("negative timeout %d", minutes))
	}

	sess.ExpiresAt = expiresAt
	sess.Timeout = time.Duration(minutes) * time.Minute

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		rawKey, rawValue, ok := strings.Cut(line, "=")
		if !ok {
			return errors.Join(ErrCorruptedFile, fmt.Errorf("malformed item line %q", line))
		}
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return errors.Join(ErrCorruptedFile, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return errors.Join(ErrCorruptedFile, err)
		}
		sess.items[key] = value
	}
	if err := sc.Err(); err != nil {
		return errors.Join(ErrLoadSession, err)
	}
	return nil
}
