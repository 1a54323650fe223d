// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/bughub/internal/app/system/auditlog"
	"github.com/dalemusser/bughub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devSessionKey is the shipped default. Production refuses to start with it.
const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for BugHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: BUGHUB_MONGO_URI, BUGHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "bughub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "bughub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (default: 30 days)"},

	// Bearer tokens
	{Name: "jwt_secret", Default: "", Desc: "HS256 secret for bearer tokens (blank disables them; required in prod)"},
	{Name: "jwt_expiry", Default: "24h", Desc: "Bearer token lifetime"},

	// Rate limiting on /users
	{Name: "users_rate_limit", Default: 100, Desc: "Requests per client IP per window on /users"},
	{Name: "users_rate_window", Default: "15m", Desc: "Window for users_rate_limit"},
	{Name: "login_rate_limit", Default: 10, Desc: "Credential checks per email per window"},
	{Name: "login_rate_window", Default: "15m", Desc: "Window for login_rate_limit"},
	{Name: "trusted_proxies", Default: "", Desc: "Comma-separated proxy IPs/CIDRs allowed to set X-Forwarded-For (blank trusts none)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_activity", Default: "all", Desc: "Group, bug and membership event logging: 'all', 'db', 'log', or 'off'"},

	// Membership record cleanup
	{Name: "request_retention", Default: "2160h", Desc: "Keep resolved requests/invites this long (0 disables cleanup)"},
	{Name: "request_cleanup_interval", Default: "1h", Desc: "How often the cleanup worker runs"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, BUGHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "BUGHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		JWTSecret: appValues.String("jwt_secret"),
		JWTExpiry: appValues.Duration("jwt_expiry", 24*time.Hour),

		UsersRateLimit:  appValues.Int("users_rate_limit"),
		UsersRateWindow: appValues.Duration("users_rate_window", 15*time.Minute),
		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", 15*time.Minute),
		TrustedProxies:  appValues.String("trusted_proxies"),

		AuditLogAuth:     appValues.String("audit_log_auth"),
		AuditLogActivity: appValues.String("audit_log_activity"),

		RequestRetention:       appValues.Duration("request_retention", 90*24*time.Hour),
		RequestCleanupInterval: appValues.Duration("request_cleanup_interval", time.Hour),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is checked here to catch configuration errors early,
// before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key must not be empty")
	}
	if appCfg.SessionMaxAge <= 0 {
		return fmt.Errorf("session_max_age must be positive")
	}
	if appCfg.JWTSecret != "" && appCfg.JWTExpiry <= 0 {
		return fmt.Errorf("jwt_expiry must be positive")
	}

	if appCfg.UsersRateLimit <= 0 || appCfg.UsersRateWindow <= 0 {
		return fmt.Errorf("users_rate_limit and users_rate_window must be positive")
	}
	if appCfg.LoginRateLimit <= 0 || appCfg.LoginRateWindow <= 0 {
		return fmt.Errorf("login_rate_limit and login_rate_window must be positive")
	}
	if _, err := ratelimit.ParseTrustedProxies(appCfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted_proxies: %w", err)
	}

	for name, v := range map[string]string{
		"audit_log_auth":     appCfg.AuditLogAuth,
		"audit_log_activity": appCfg.AuditLogActivity,
	} {
		switch v {
		case "", auditlog.All, auditlog.DB, auditlog.Log, auditlog.Off:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", name, v)
		}
	}

	if appCfg.RequestRetention > 0 && appCfg.RequestCleanupInterval <= 0 {
		return fmt.Errorf("request_cleanup_interval must be positive when request_retention is set")
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == devSessionKey || len(appCfg.SessionKey) < 32 {
			return fmt.Errorf("production requires a session_key of at least 32 characters")
		}
		if appCfg.JWTSecret == "" {
			return fmt.Errorf("production requires jwt_secret")
		}
	}

	return nil
}
