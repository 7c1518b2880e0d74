package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"duitku/internal/core"
	ports "duitku/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Tab names and ranges are a fixed contract with the spreadsheet. Column
// order is hard-coded and never validated against actual headers.
const (
	incomeRange   = "!A2:E"
	budgetRange   = "!A2:H"
	spendingRange = "!A2:G"
	assetsRange   = "!A2:I"
	accountsRange = "!A2:D"
	settingsRange = "!A2:B"
)

type Config struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string

	// Tab names; zero values fall back to the defaults below.
	IncomeSheet   string
	BudgetSheet   string
	SpendingSheet string
	AssetsSheet   string
	AccountsSheet string
	SettingsSheet string
}

func (c *Config) applyDefaults() {
	if c.IncomeSheet == "" {
		c.IncomeSheet = "Income"
	}
	if c.BudgetSheet == "" {
		c.BudgetSheet = "Budgeting"
	}
	if c.SpendingSheet == "" {
		c.SpendingSheet = "Spending"
	}
	if c.AssetsSheet == "" {
		c.AssetsSheet = "Assets"
	}
	if c.AccountsSheet == "" {
		c.AccountsSheet = "Accounts"
	}
	if c.SettingsSheet == "" {
		c.SettingsSheet = "Settings"
	}
}

type Client struct {
	svc *gsheet.Service
	cfg Config
}

// Ensure interface conformance
var _ ports.Provider = (*Client)(nil)

// New creates a Sheets client from service-account credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	cfg.applyDefaults()

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, cfg: cfg}, nil
}

func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte
	var err error

	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		credentialsJSON, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

func (c *Client) readRange(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// MonthlyIncome implements ports.IncomeReader. Rows outside the requested
// month/year are filtered out after mapping; the sheet holds all months.
func (c *Client) MonthlyIncome(ctx context.Context, month, year int) ([]core.MonthlyIncome, error) {
	rows, err := c.readRange(ctx, c.cfg.IncomeSheet+incomeRange)
	if err != nil {
		return nil, err
	}
	var out []core.MonthlyIncome
	for _, row := range rows {
		in := incomeFromRow(row)
		if in.Source == "" && in.Amount == 0 {
			continue
		}
		if matchPeriod(in.Month, in.Year, month, year) {
			out = append(out, in)
		}
	}
	return out, nil
}

// BudgetCategories implements ports.BudgetReader.
func (c *Client) BudgetCategories(ctx context.Context, month, year int) ([]core.BudgetCategory, error) {
	rows, err := c.readRange(ctx, c.cfg.BudgetSheet+budgetRange)
	if err != nil {
		return nil, err
	}
	var out []core.BudgetCategory
	for _, row := range rows {
		b := budgetFromRow(row)
		if b.Name == "" {
			continue
		}
		if matchPeriod(b.Month, b.Year, month, year) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Expenses implements ports.ExpenseReader.
func (c *Client) Expenses(ctx context.Context, month, year int) ([]core.Expense, error) {
	rows, err := c.readRange(ctx, c.cfg.SpendingSheet+spendingRange)
	if err != nil {
		return nil, err
	}
	var out []core.Expense
	for _, row := range rows {
		e := expenseFromRow(row)
		if e.Description == "" && e.Amount == 0 {
			continue
		}
		if matchPeriod(e.Month, e.Year, month, year) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Assets implements ports.AssetReader. Assets are not month-scoped.
func (c *Client) Assets(ctx context.Context) ([]core.Asset, error) {
	rows, err := c.readRange(ctx, c.cfg.AssetsSheet+assetsRange)
	if err != nil {
		return nil, err
	}
	var out []core.Asset
	for _, row := range rows {
		a := assetFromRow(row)
		if a.Name == "" {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// BankAccounts implements ports.AccountReader.
func (c *Client) BankAccounts(ctx context.Context) ([]core.BankAccount, error) {
	rows, err := c.readRange(ctx, c.cfg.AccountsSheet+accountsRange)
	if err != nil {
		return nil, err
	}
	var out []core.BankAccount
	for _, row := range rows {
		a := accountFromRow(row)
		if a.Name == "" {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Settings implements ports.SettingsReader. Missing or malformed keys keep
// their defaults.
func (c *Client) Settings(ctx context.Context) (core.Settings, error) {
	rows, err := c.readRange(ctx, c.cfg.SettingsSheet+settingsRange)
	if err != nil {
		return core.DefaultSettings(), err
	}
	return settingsFromRows(rows), nil
}

// AppendExpense implements ports.ExpenseAppender.
func (c *Client) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	row := []interface{}{e.Date, e.Description, e.Amount, e.Category, e.Account, e.Month, e.Year}
	return c.appendRow(ctx, c.cfg.SpendingSheet+spendingRange, row)
}

// AppendIncome implements ports.IncomeAppender.
func (c *Client) AppendIncome(ctx context.Context, in core.MonthlyIncome) (string, error) {
	if err := in.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	row := []interface{}{in.Source, in.Amount, in.Month, in.Year, in.Account}
	return c.appendRow(ctx, c.cfg.IncomeSheet+incomeRange, row)
}

func (c *Client) appendRow(ctx context.Context, rng string, row []interface{}) (string, error) {
	vr := &gsheet.ValueRange{Values: [][]interface{}{row}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.cfg.SpreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", rng, err)
	}
	if resp.Updates != nil {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}

// UpdateBudgets overwrites the budget rows for the given month/year. The
// whole range is cleared first so removed categories do not linger.
func (c *Client) UpdateBudgets(ctx context.Context, month, year int, categories []core.BudgetCategory) error {
	rows := make([][]interface{}, 0, len(categories))
	for _, b := range categories {
		rows = append(rows, []interface{}{b.Name, string(b.Type), b.Color, b.Allocation, b.Spent, month, year, b.Account})
	}
	return c.overwriteRange(ctx, c.cfg.BudgetSheet+budgetRange, rows)
}

// UpdateAssets overwrites the assets tab wholesale.
func (c *Client) UpdateAssets(ctx context.Context, assets []core.Asset) error {
	now := time.Now().Format(time.RFC3339)
	rows := make([][]interface{}, 0, len(assets))
	for _, a := range assets {
		last := a.LastUpdated
		if last == "" {
			last = now
		}
		rows = append(rows, []interface{}{a.Name, string(a.Type), a.Category, a.Symbol, a.Shares, a.Price, a.CurrentValue, a.TargetValue, last})
	}
	return c.overwriteRange(ctx, c.cfg.AssetsSheet+assetsRange, rows)
}

func (c *Client) overwriteRange(ctx context.Context, rng string, rows [][]interface{}) error {
	if _, err := c.svc.Spreadsheets.Values.Clear(c.cfg.SpreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	if len(rows) == 0 {
		return nil
	}
	vr := &gsheet.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// matchPeriod treats month==0 or year==0 as "any".
func matchPeriod(rowMonth, rowYear, month, year int) bool {
	if month != 0 && rowMonth != month {
		return false
	}
	if year != 0 && rowYear != year {
		return false
	}
	return true
}
