// Command api serves the published player image map and coverage runs.
//
// Usage:
//
//	topina-api
//	TOPINA_API_PORT=8080 topina-api

// @title Topina Player Image API
// @version 1.0.0
// @description Canonical player name to headshot reference map and image coverage reports.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Topina
// @license.name MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/albapepper/topina-data/internal/api"
	"github.com/albapepper/topina-data/internal/cache"
	"github.com/albapepper/topina-data/internal/config"
	"github.com/albapepper/topina-data/internal/db"
	"github.com/albapepper/topina-data/internal/store"

	_ "github.com/albapepper/topina-data/docs" // swagger docs
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("connecting to database")
	pool, err := db.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("database connected",
		zap.Int("min_conns", cfg.Database.PoolMinConns),
		zap.Int("max_conns", cfg.Database.PoolMaxConns))

	appCache := cache.New(cfg.API.CacheEnabled)
	defer appCache.Close()

	router := api.NewRouter(store.New(pool), pool, appCache, cfg.API, logger)

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting api",
			zap.String("addr", addr),
			zap.String("environment", cfg.Environment),
			zap.String("docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.API.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
