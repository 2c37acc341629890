// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	internshipstore "github.com/dalemusser/careerhub/internal/app/store/internships"
	jobstore "github.com/dalemusser/careerhub/internal/app/store/jobs"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authutil"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// CareerHub ensures the bootstrap admin exists and starts the posting sweep.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	respond.SetProduction(coreCfg.Env == "prod")

	if appCfg.AdminEmail != "" && appCfg.AdminPassword != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return err
		}
	}

	if appCfg.PostingSweepInterval > 0 {
		deps.Workers.Start(workers.NewPostingSweep(map[string]workers.Sweeper{
			"jobs":        jobstore.New(deps.MongoDatabase),
			"internships": internshipstore.New(deps.MongoDatabase),
		}, logger, appCfg.PostingSweepInterval))
		logger.Info("posting sweep started", zap.Duration("interval", appCfg.PostingSweepInterval))
	}
	return nil
}

// ensureAdmin creates an admin with email and password, or promotes and
// reactivates the existing account with that email.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := authutil.ValidatePassword(password); err != nil {
		return fmt.Errorf("admin_password: %w", err)
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	created, err := userstore.New(deps.MongoDatabase).EnsureAdmin(ctx, email, "Administrator", hash)
	if err != nil {
		return fmt.Errorf("ensure admin %s: %w", email, err)
	}
	if created {
		logger.Info("created bootstrap admin", zap.String("email", email))
	} else {
		logger.Info("bootstrap admin present", zap.String("email", email))
	}
	return nil
}
