package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/webstack-go/websession/core/logger"
	"github.com/webstack-go/websession/core/session"
)

type sessionCtxKey struct{}

// Transport resolves a request's session and writes the identifier back
// to the response. Implemented by sessiontransport.Cookie.
type Transport interface {
	Load(r *http.Request) (*session.Session, error)
	Write(w http.ResponseWriter, sess *session.Session) error
}

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Transport resolves and transmits the session identifier.
	Transport Transport
	// Logger for structured logging (default: slog with io.Discard).
	Logger *slog.Logger
	// Skip disables session handling for matching requests, e.g. health
	// checks.
	Skip func(r *http.Request) bool
}

// Session creates middleware that marks the request's session as used,
// stores it in the request context, and applies its changes once the
// handler returns.
//
// Load failures are logged and the request proceeds without a session;
// persistence failures after the handler are logged because the response
// is already on the wire.
func Session(transport Transport) func(http.Handler) http.Handler {
	return SessionWithConfig(SessionConfig{Transport: transport})
}

// SessionWithConfig creates the session middleware with custom
// configuration.
func SessionWithConfig(cfg SessionConfig) func(http.Handler) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := cfg.Transport.Load(r)
			if err != nil {
				log.ErrorContext(r.Context(), "failed to load session",
					logger.Component("middleware.session"), logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			// Mark as used before the handler so the refreshed expiry
			// reaches both the cookie and, via ApplyChanges, the store.
			sess.Touch()
			if err := cfg.Transport.Write(w, sess); err != nil {
				log.ErrorContext(r.Context(), "failed to write session cookie",
					logger.Component("middleware.session"), logger.Error(err))
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))

			if err := sess.ApplyChanges(); err != nil {
				log.ErrorContext(r.Context(), "failed to persist session",
					logger.Component("middleware.session"),
					logger.ID("session_id", sess.ID),
					logger.Error(err))
			}
		})
	}
}

// GetSession returns the session stored in the request context by the
// middleware.
func GetSession(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey{}).(*session.Session)
	return sess, ok
}
