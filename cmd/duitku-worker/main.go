package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	appamqp "duitku/internal/amqp"
	"duitku/internal/config"
	applog "duitku/internal/log"
	gsheet "duitku/internal/sheets/google"
	"duitku/internal/storage"
	"duitku/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent("worker")
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.DemoMode() {
		logger.Info("No spreadsheet credentials configured, nothing to sync")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
		IncomeSheet:     cfg.IncomeSheet,
		BudgetSheet:     cfg.BudgetSheet,
		SpendingSheet:   cfg.SpendingSheet,
		AssetsSheet:     cfg.AssetsSheet,
		AccountsSheet:   cfg.AccountsSheet,
		SettingsSheet:   cfg.SettingsSheet,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	w := worker.NewSyncWorker(repo, client, client, cfg.SyncBatchSize)

	// Without a broker the worker still drains the queue on the sweep timer.
	var dial func() (*appamqp.Client, error)
	if cfg.AMQPURL != "" {
		dial = func() (*appamqp.Client, error) {
			return appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		}
	}

	logger.Info("Starting sync worker",
		"batch_size", cfg.SyncBatchSize,
		"sweep_interval", cfg.SyncInterval,
		"amqp", cfg.AMQPURL != "")
	if err := w.Run(ctx, dial, cfg.SyncInterval); err != nil && ctx.Err() == nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
