// Command playermap builds and checks the player headshot map.
//
// Usage:
//
//	playermap generate
//	playermap merge
//	playermap validate --strict
//	playermap verify "Julio Jones" "A.J. Brown"
//	playermap split-legacy js/data/player-map.js
//	playermap publish
//	playermap migrate
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/albapepper/topina-data/internal/config"
	"github.com/albapepper/topina-data/internal/db"
	"github.com/albapepper/topina-data/internal/playermap"
	"github.com/albapepper/topina-data/internal/sleeper"
	"github.com/albapepper/topina-data/internal/sourcemap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "playermap",
		Short:         "Build and validate the player headshot map",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(generateCmd())
	root.AddCommand(mergeCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(verifyCmd())
	root.AddCommand(splitLegacyCmd())
	root.AddCommand(publishCmd())
	root.AddCommand(migrateCmd())
	return root
}

// --------------------------------------------------------------------------
// Task runners
// --------------------------------------------------------------------------

// runTask loads config and a logger, then runs fn under an interruptible
// context. A returned error is logged and makes the process exit non-zero.
func runTask(fn func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "load config")
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if err := fn(ctx, cfg, logger); err != nil {
		logger.Error("task failed", zap.Error(err))
		return err
	}
	return nil
}

// runWithDB is runTask plus a connected pool.
func runWithDB(fn func(ctx context.Context, cfg *config.Config, logger *zap.Logger, pool *db.Pool) error) error {
	return runTask(func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
		if err := cfg.RequireDatabase(); err != nil {
			return err
		}
		pool, err := db.New(ctx, cfg.Database)
		if err != nil {
			return eris.Wrap(err, "connect to database")
		}
		defer pool.Close()
		return fn(ctx, cfg, logger, pool)
	})
}

// --------------------------------------------------------------------------
// Shared steps
// --------------------------------------------------------------------------

// buildMap imports the roster and applies the overrides. Only a missing or
// unreadable roster is fatal.
func buildMap(cfg *config.Config, logger *zap.Logger) (*playermap.Map, error) {
	bulk, err := sleeper.ImportFile(cfg.Paths.Roster, cfg.Sleeper.XRefField)
	if err != nil {
		return nil, eris.Wrap(err, "bulk roster unavailable")
	}
	logger.Info("roster imported", zap.String("path", cfg.Paths.Roster), zap.Int("players", len(bulk)))

	manual, res, err := playermap.LoadOverrides(cfg.Paths.Overrides)
	if err != nil {
		return nil, err
	}
	logWarnings(logger, res)
	logger.Info("overrides loaded",
		zap.String("path", cfg.Paths.Overrides),
		zap.Int("entries", len(manual)),
		zap.String("strategy", string(res.Strategy)))

	m := playermap.Merge(bulk, manual)
	if over := m.Overridden(); len(over) > 0 {
		logger.Info("bulk entries overridden", zap.Strings("names", over))
	}
	return m, nil
}

func logWarnings(logger *zap.Logger, res sourcemap.Result) {
	for _, w := range res.Warnings {
		logger.Warn("override source degraded", zap.String("keyword", res.Keyword), zap.Error(w))
	}
}
