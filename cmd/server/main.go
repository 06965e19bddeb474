// Package main is the entry point for the Lotwatch trading assistant.
// It reconstructs tax lots from brokerage transaction history and serves
// order-sizing recommendations over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/lotwatch/internal/clientdata"
	"github.com/aristath/lotwatch/internal/clients/brokerage"
	"github.com/aristath/lotwatch/internal/config"
	"github.com/aristath/lotwatch/internal/database"
	"github.com/aristath/lotwatch/internal/modules/lots"
	"github.com/aristath/lotwatch/internal/modules/orders"
	"github.com/aristath/lotwatch/internal/scheduler"
	"github.com/aristath/lotwatch/internal/server"
	"github.com/aristath/lotwatch/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Lotwatch")

	// Cache database for brokerage responses
	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "client_data.db"),
		Profile: database.ProfileCache,
		Name:    "client_data",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer func() {
		if err := cacheDB.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close cache database")
		}
	}()

	cacheRepo := clientdata.NewRepository(cacheDB.Conn())
	if err := cacheRepo.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache schema")
	}

	// Brokerage client wrapped with the response cache
	client := brokerage.NewClient(cfg.BrokerageBaseURL, cfg.BrokerageAPIKey, cfg.BrokerageAPISecret, log)
	feed := brokerage.NewCachedFeed(client, cacheRepo, log)
	feed.QuoteTTL = cfg.QuoteCacheTTL
	feed.HistoryTTL = cfg.HistoryCacheTTL

	// Core services
	lotsService := lots.NewService(feed, log)
	ordersService := orders.NewService(lotsService, feed, log)

	// Background cache cleanup
	cleanupJob := clientdata.NewCleanupJob(cacheRepo, cacheDB, log)
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.CacheCleanupCron, cleanupJob); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.CacheCleanupCron).Msg("Failed to register cache cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Log:           log,
		Config:        cfg,
		CacheDB:       cacheDB,
		LotsService:   lotsService,
		OrdersService: ordersService,
		CleanupJob:    cleanupJob,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	// Wait for shutdown signal or server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Lotwatch stopped")
}
