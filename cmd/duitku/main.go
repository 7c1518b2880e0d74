package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"duitku/internal/auth"
	"duitku/internal/cache"
	"duitku/internal/config"
	apphttp "duitku/internal/http"
	applog "duitku/internal/log"
	"duitku/internal/services"
	"duitku/internal/sheets"
	"duitku/internal/sheets/demo"
	gsheet "duitku/internal/sheets/google"
	"duitku/internal/storage"
	"duitku/internal/store"

	appamqp "duitku/internal/amqp"
)

func main() {
	// .env is for local development; production sets real env vars.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent("server")
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	demoProvider := demo.New()

	var provider sheets.Provider = demoProvider
	var fallback sheets.Fallback
	if cfg.DemoMode() {
		logger.Info("No spreadsheet credentials configured, running in demo mode")
	} else {
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
		provider = client
		fallback = demoProvider
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	svc := sheets.NewService(provider, fallback, logger.Logger)

	// The durable write queue only makes sense against a real sheet.
	var repo *storage.SQLiteRepository
	var queue services.WriteQueue
	var publisher services.SyncPublisher
	if !cfg.DemoMode() {
		var err error
		repo, err = storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		queue = repo

		if cfg.AMQPURL != "" {
			amqpClient, err := appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				logger.Error("Failed to initialize AMQP client, worker will rely on queue sweeps", "error", err)
			} else {
				defer amqpClient.Close()
				publisher = amqpClient
			}
		}
	}

	records := services.NewRecordService(queue, publisher, svc)
	authsvc := auth.NewService(cfg.AuthSecret, cfg.SessionTTL)

	st := store.New(svc, logger.Logger)
	if repo != nil {
		st.SetHistory(repo)
	}
	if err := st.Load(ctx, 0, 0); err != nil {
		logger.Error("Initial data load failed", "error", err)
	}
	st.StartAutoRefresh(ctx, cfg.RefreshInterval)

	cacheMgr := cache.NewManager()
	cacheMgr.Register(st)
	cacheMgr.StartCleanup(time.Minute)
	defer cacheMgr.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, st, records, authsvc, cfg.DemoMode())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting duitku server", "port", cfg.Port, "demo_mode", cfg.DemoMode())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
