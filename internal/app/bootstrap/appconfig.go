// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where the bug tracker's own settings live: the database,
// cookie sessions and bearer tokens, rate limits, audit destinations and
// the membership-record cleanup worker.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: bughub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Bearer tokens. A blank secret disables them outside production.
	JWTSecret string
	JWTExpiry time.Duration

	// /users throttling: per client IP, and per email for credential checks
	UsersRateLimit  int
	UsersRateWindow time.Duration
	LoginRateLimit  int
	LoginRateWindow time.Duration
	// Comma-separated IPs/CIDRs whose X-Forwarded-For is believed
	TrustedProxies string

	// Audit logging destinations: all, db, log or off
	AuditLogAuth     string
	AuditLogActivity string

	// Resolved membership records older than RequestRetention are pruned
	// every RequestCleanupInterval. A zero retention disables the worker.
	RequestRetention       time.Duration
	RequestCleanupInterval time.Duration
}
