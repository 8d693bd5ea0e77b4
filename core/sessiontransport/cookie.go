package sessiontransport

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/webstack-go/websession/core/session"
)

// Cookie transports the session identifier in an HTTP cookie. The cookie
// value is the raw id: it is opaque and high-entropy, so it carries no
// information worth encrypting, and payload encryption is out of scope
// for the session subsystem.
type Cookie struct {
	manager *session.Manager
	name    string
	timeout time.Duration
}

// NewCookie creates a cookie-based session transport. The timeout is
// applied to every session the transport creates or resumes.
func NewCookie(manager *session.Manager, name string, timeout time.Duration) *Cookie {
	return &Cookie{
		manager: manager,
		name:    name,
		timeout: timeout,
	}
}

// Load resolves the request's session. A missing cookie, an unknown id,
// and an expired session all degrade to a fresh session, so callers
// always get a usable one. Backend failures are surfaced.
func (c *Cookie) Load(r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return c.manager.Create(c.timeout)
	}

	sess, err := c.manager.Resume(cookie.Value, c.timeout)
	if errors.Is(err, session.ErrExpired) {
		return c.manager.Create(c.timeout)
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Write sets the session cookie on the response. It must run before the
// response body is written. Sessions that never expire get a session
// cookie (no Max-Age).
func (c *Cookie) Write(w http.ResponseWriter, sess *session.Session) error {
	if sess == nil {
		return nil
	}
	maxAge := 0
	if !sess.ExpiresAt.IsZero() {
		until := time.Until(sess.ExpiresAt)
		if until <= 0 {
			return fmt.Errorf("sessiontransport: refusing to write cookie for session expired %v ago", -until)
		}
		maxAge = int(until / time.Second)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Store persists the session and refreshes the cookie in one step, for
// handlers that manage the session lifecycle without the middleware.
func (c *Cookie) Store(w http.ResponseWriter, sess *session.Session) error {
	if sess == nil {
		return nil
	}
	if err := sess.ApplyChanges(); err != nil {
		return err
	}
	return c.Write(w, sess)
}

// Destroy deletes the request's session from the backend and expires the
// cookie.
func (c *Cookie) Destroy(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(c.name)
	if err == nil && cookie.Value != "" {
		if err := c.manager.Delete(cookie.Value); err != nil {
			return err
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
