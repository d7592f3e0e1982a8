package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/hearth-storefront/pkg/config"
	"github.com/angelmondragon/hearth-storefront/pkg/db"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

// MaybeRunDev applies pending migrations when running in dev with auto-migrate
// enabled, or whenever the state store is a throwaway sqlite file.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client == nil {
		return nil
	}
	autoRun := cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate
	if !autoRun && client.Dialect() != db.DriverSQLite {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir, "dialect": client.Dialect()})
	logg.Info(ctx, "running goose migrations (auto-run)")

	if err := Run(ctx, sqlDB, client.Dialect(), DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
