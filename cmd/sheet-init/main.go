// Command sheet-init prepares a spreadsheet for use as the data backend:
// it creates the expected tabs and writes the header row each tab's column
// contract assumes. Safe to re-run; existing data below row 1 is untouched.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"duitku/internal/config"
	applog "duitku/internal/log"
	gsheet "duitku/internal/sheets/google"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent("sheet-init")
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.DemoMode() {
		logger.Error("Spreadsheet id and service account credentials are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

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

	if err := client.Bootstrap(ctx); err != nil {
		logger.Error("Bootstrap failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Spreadsheet initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
}
