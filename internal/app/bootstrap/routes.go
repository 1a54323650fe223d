// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	bugsfeature "github.com/dalemusser/bughub/internal/app/features/bugs"
	errorsfeature "github.com/dalemusser/bughub/internal/app/features/errors"
	grouprequestsfeature "github.com/dalemusser/bughub/internal/app/features/grouprequests"
	groupsfeature "github.com/dalemusser/bughub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/bughub/internal/app/features/health"
	usersfeature "github.com/dalemusser/bughub/internal/app/features/users"
	"github.com/dalemusser/bughub/internal/app/store/audit"
	userstore "github.com/dalemusser/bughub/internal/app/store/users"
	"github.com/dalemusser/bughub/internal/app/system/auditlog"
	"github.com/dalemusser/bughub/internal/app/system/auth"
	"github.com/dalemusser/bughub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// BugHub applies the session middleware once at the root and mounts the
// JSON feature routers: users, bugs, groups, join requests and invites,
// and health.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.BugHubMongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Reload the user on each request so membership changes apply at once.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	if appCfg.JWTSecret != "" {
		tokens, err := auth.NewTokenIssuer(appCfg.JWTSecret, appCfg.JWTExpiry)
		if err != nil {
			logger.Error("token issuer init failed", zap.Error(err))
			return nil, err
		}
		sessionMgr.SetTokenIssuer(tokens)
		logger.Info("bearer tokens enabled", zap.Duration("ttl", tokens.TTL()))
	} else {
		logger.Warn("jwt_secret is blank; bearer tokens are disabled")
	}

	proxies, err := ratelimit.ParseTrustedProxies(appCfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:     appCfg.AuditLogAuth,
		Activity: appCfg.AuditLogActivity,
		Proxies:  proxies,
	})

	background.users = ratelimit.New(appCfg.UsersRateLimit, appCfg.UsersRateWindow)
	background.users.TrustProxies(proxies)
	background.logins = ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)

	r := chi.NewRouter()

	// JSON 404/405. Set before mounting so subrouters inherit them.
	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Global auth middleware: loads SessionUser into context from a bearer
	// token or the session cookie.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.BugHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Accounts, behind the per-IP limiter
	usersHandler := usersfeature.NewHandler(db, sessionMgr, background.logins, auditLog, logger)
	r.Group(func(lr chi.Router) {
		lr.Use(background.users.Middleware)
		lr.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))
	})

	bugsHandler := bugsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/bugs", bugsfeature.Routes(bugsHandler, sessionMgr))

	// /groups/requests and /groups/invites are more specific than the
	// /groups mount and take precedence over its /{id} routes.
	groupsHandler := groupsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	requestsHandler := grouprequestsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/groups/requests", grouprequestsfeature.RequestRoutes(requestsHandler, sessionMgr))
	r.Mount("/groups/invites", grouprequestsfeature.InviteRoutes(requestsHandler, sessionMgr))

	return r, nil
}
