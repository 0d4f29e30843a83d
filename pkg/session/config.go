package session

import "time"

// Config holds session manager configuration.
type Config struct {
	// TTL is the sliding session lifetime.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// TouchInterval throttles sliding-expiration writes: the TTL is only
	// refreshed when at least this much of it has been consumed.
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`

	// MaxSessionsPerUser caps concurrent sessions per account. The
	// oldest session is evicted to make room for a new one.
	MaxSessionsPerUser int `env:"SESSION_MAX_PER_USER" envDefault:"5"`

	// CacheOpTimeout bounds every individual cache call so a slow cache
	// cannot stall the request pipeline.
	CacheOpTimeout time.Duration `env:"SESSION_CACHE_OP_TIMEOUT" envDefault:"3s"`

	// CookieName is the HTTP-only session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// CSRFCookieName is the script-readable anti-forgery cookie.
	CSRFCookieName string `env:"SESSION_CSRF_COOKIE_NAME" envDefault:"csrf_token"`

	// SecureCookies adds the Secure attribute to issued cookies.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"true"`

	// CleanupInterval is the cadence of the expiry sweep run by the
	// owning service. Zero disables sweeping.
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		TTL:                30 * time.Minute,
		TouchInterval:      5 * time.Minute,
		MaxSessionsPerUser: 5,
		CacheOpTimeout:     3 * time.Second,
		CookieName:         "sid",
		CSRFCookieName:     "csrf_token",
		SecureCookies:      true,
		CleanupInterval:    5 * time.Minute,
	}
}
