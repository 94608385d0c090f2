package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/albapepper/topina-data/internal/config"
	"github.com/albapepper/topina-data/internal/db"
	"github.com/albapepper/topina-data/internal/imageref"
	"github.com/albapepper/topina-data/internal/store"
)

func publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Merge the map and replace its copy in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDB(func(ctx context.Context, cfg *config.Config, logger *zap.Logger, pool *db.Pool) error {
				m, err := buildMap(cfg, logger)
				if err != nil {
					return err
				}
				n, err := store.New(pool).PutMap(ctx, m, imageref.Template{Host: cfg.ESPN.ImageHost})
				if err != nil {
					return err
				}
				logger.Info("map published", zap.Int64("rows", n))
				return nil
			})
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDB(func(ctx context.Context, cfg *config.Config, logger *zap.Logger, pool *db.Pool) error {
				return db.Migrate(ctx, pool.Pool, logger)
			})
		},
	}
}
