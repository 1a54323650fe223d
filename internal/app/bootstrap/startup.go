// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	grouprequeststore "github.com/dalemusser/bughub/internal/app/store/grouprequests"
	"github.com/dalemusser/bughub/internal/app/system/ratelimit"
	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"github.com/dalemusser/bughub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// background holds what Startup and BuildHandler start and Shutdown stops.
var background struct {
	cleanup *workers.RequestCleanup
	users   *ratelimit.Limiter
	logins  *ratelimit.LoginLimiter
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: it
// applies TIMEOUT_* overrides and starts the membership-record cleanup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Int("count", n),
			zap.Duration("ping", cur.Ping),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium),
			zap.Duration("long", cur.Long))
	}

	if appCfg.RequestRetention > 0 {
		background.cleanup = workers.NewRequestCleanup(
			grouprequeststore.New(deps.BugHubMongoDatabase),
			logger,
			appCfg.RequestCleanupInterval,
			appCfg.RequestRetention,
		)
		background.cleanup.Start()
	} else {
		logger.Info("request cleanup disabled")
	}
	return nil
}
