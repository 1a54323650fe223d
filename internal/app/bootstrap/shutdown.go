// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work, then disconnects MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if background.cleanup != nil {
		background.cleanup.Stop()
		background.cleanup = nil
	}
	if background.users != nil {
		background.users.Stop()
		background.users = nil
	}
	if background.logins != nil {
		background.logins.Stop()
		background.logins = nil
	}

	if deps.BugHubMongoClient != nil {
		logger.Info("disconnecting BugHub MongoDB client")
		if err := deps.BugHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
