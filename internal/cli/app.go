// Package cli wires the command tree and the shared bootstrap used by
// cmd/bilancio and cmd/bilancio-worker.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"bilancio/internal/amqp"
	"bilancio/internal/cache"
	"bilancio/internal/config"
	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/notify"
	"bilancio/internal/services"
	"bilancio/internal/storage"
)

// SetupLogger initializes structured logging and sets the default.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are
// ignored, production deployments configure through the environment.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// app holds everything a command needs, built once per invocation.
type app struct {
	cfg     *config.Config
	repo    *storage.SQLiteRepository
	broker  *amqp.Client
	tx      *services.TransactionService
	budgets *services.BudgetService
	dash    *services.DashboardService
}

func newApp() (*app, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var broker *amqp.Client
	if cfg.AMQPURL != "" {
		broker, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPSyncQueue, cfg.AMQPAlertQueue)
		if err != nil {
			// The broker is optional for the CLI: mutations still land
			// in SQLite and the worker's startup sweep picks them up.
			slog.Warn("AMQP unavailable, sync events disabled", "error", err)
			broker = nil
		}
	}

	notifiers := notify.Multi{notify.LogNotifier{}}
	var publisher services.EventPublisher
	if broker != nil {
		notifiers = append(notifiers, notify.NewQueueNotifier(broker))
		publisher = broker
	}

	evalCache := cache.NewLRUCache[core.Evaluation](128, 30*time.Second)

	return &app{
		cfg:     cfg,
		repo:    repo,
		broker:  broker,
		tx:      services.NewTransactionService(repo, publisher, evalCache),
		budgets: services.NewBudgetService(repo, notifiers, evalCache),
		dash:    services.NewDashboardService(repo, cfg.TrailingWindowDays),
	}, nil
}

func (a *app) Close() {
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			slog.Error("Failed to close AMQP client", "error", err)
		}
	}
	if err := a.repo.Close(); err != nil {
		slog.Error("Failed to close storage", "error", err)
	}
}

// Execute runs the root command. It is the entry point for
// cmd/bilancio.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
