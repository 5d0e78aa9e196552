// Package main is the entry point for the token rewards dashboard engine.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"token-rewards-dashboard/internal/catalog"
	"token-rewards-dashboard/internal/config"
	"token-rewards-dashboard/internal/pkg/db"
	"token-rewards-dashboard/internal/pkg/lock"
	"token-rewards-dashboard/internal/repository"
	"token-rewards-dashboard/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool and persistence
	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	persister := repository.NewPostgresPersister(pool)
	if err := persister.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	store, err := repository.NewStore(ctx, persister, catalog.DefaultTasks())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dashboard state")
	}

	// Initialize account lock
	accountLock := lock.NewAccountLock()

	// Initialize the reward engine
	engine := service.NewEngine(store, accountLock, cfg)

	// Rebind the previously bound account as the active session, so the
	// payout scheduler keeps settling across restarts.
	if boundUID := store.BoundUID(); boundUID != "" {
		if _, _, err := engine.Accounts.Login(ctx, boundUID, ""); err != nil {
			log.Warn().Err(err).Str("uid", boundUID).Msg("Failed to restore bound session")
		}
	}

	// Start the payout scheduler
	scheduler := service.NewPayoutScheduler(engine.Payouts, engine.Accounts, cfg.Scheduler.CheckInterval)
	scheduler.Start(ctx)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	scheduler.Stop()
	log.Info().Msg("Dashboard engine stopped gracefully")
}
