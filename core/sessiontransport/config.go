package sessiontransport

import (
	"time"

	"github.com/webstack-go/websession/core/session"
)

// Config provides environment-based configuration for the cookie-based
// session transport.
type Config struct {
	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"__session"`

	// Timeout is the idle timeout applied to sessions the transport
	// creates or resumes. Zero means sessions never expire.
	Timeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"30m"`
}

// NewCookieFromConfig creates a cookie-based session transport from
// configuration. The session manager must be provided by the caller.
func NewCookieFromConfig(cfg Config, manager *session.Manager) *Cookie {
	return NewCookie(manager, cfg.CookieName, cfg.Timeout)
}
