package core

import (
	"errors"
	"strings"
)

const (
	Needs   BudgetType = "needs"
	Wants   BudgetType = "wants"
	Savings BudgetType = "savings"
)

const (
	Liquid    AssetType = "liquid"
	NonLiquid AssetType = "non-liquid"
)

const (
	Checking       AccountType = "checking"
	SavingsAccount AccountType = "savings"
	Investment     AccountType = "investment"
)

type (
	BudgetType  string
	AssetType   string
	AccountType string

	// MonthlyIncome is a single income entry for a given month.
	// Immutable once fetched; there is no update/delete path.
	MonthlyIncome struct {
		ID      string  `json:"id"`
		Source  string  `json:"source"`
		Amount  float64 `json:"amount"`
		Month   int     `json:"month"`
		Year    int     `json:"year"`
		Account string  `json:"account"`
	}

	// BudgetCategory carries both the budgeted ceiling (Allocation) and the
	// stored running total (Spent). Spent is written externally, not derived
	// from Expense records; the two can diverge.
	BudgetCategory struct {
		ID         string     `json:"id"`
		Name       string     `json:"name"`
		Type       BudgetType `json:"type"`
		Color      string     `json:"color"`
		Allocation float64    `json:"allocation"`
		Spent      float64    `json:"spent"`
		Month      int        `json:"month"`
		Year       int        `json:"year"`
		Account    string     `json:"account"`
	}

	// Expense.Category is free text matched against BudgetCategory.Name by
	// exact string equality (case-sensitive, no normalization).
	Expense struct {
		ID          string  `json:"id"`
		Date        string  `json:"date"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Account     string  `json:"account"`
		Month       int     `json:"month"`
		Year        int     `json:"year"`
	}

	Asset struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Type         AssetType `json:"type"`
		Category     string    `json:"category"` // cash/stocks/crypto/gold/property/deposit
		Symbol       string    `json:"symbol"`
		Shares       float64   `json:"shares"`
		Price        float64   `json:"price"`
		CurrentValue float64   `json:"currentValue"`
		TargetValue  float64   `json:"targetValue"`
		LastUpdated  string    `json:"lastUpdated"`
	}

	BankAccount struct {
		ID      string      `json:"id"`
		Name    string      `json:"name"`
		Type    AccountType `json:"type"`
		Balance float64     `json:"balance"`
		Color   string      `json:"color"`
	}

	// Settings is a process-wide singleton, no versioning. CurrencySymbol is
	// cosmetic: switching it does not re-denominate stored amounts.
	Settings struct {
		CurrencySymbol   string  `json:"currencySymbol"`
		DateFormat       string  `json:"dateFormat"`
		BudgetTargetPct  float64 `json:"budgetTargetPct"`
		SavingsTargetPct float64 `json:"savingsTargetPct"`
		NotifyOverspend  bool    `json:"notifyOverspend"`
		NotifyLowSavings bool    `json:"notifyLowSavings"`
	}

	// HistoricalPoint is one month of aggregated totals, either generated
	// synthetically or taken from recorded snapshots.
	HistoricalPoint struct {
		Month    int     `json:"month"`
		Year     int     `json:"year"`
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
		Savings  float64 `json:"savings"`
	}
)

var (
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidYear      = errors.New("invalid year")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptySource      = errors.New("empty source")
)

func validMonth(m int) bool { return m >= 1 && m <= 12 }

func validYear(y int) bool { return y >= 1900 && y <= 3000 }

func (e Expense) Validate() error {
	if !validMonth(e.Month) {
		return ErrInvalidMonth
	}
	if !validYear(e.Year) {
		return ErrInvalidYear
	}
	if e.Amount < 0 {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (i MonthlyIncome) Validate() error {
	if !validMonth(i.Month) {
		return ErrInvalidMonth
	}
	if !validYear(i.Year) {
		return ErrInvalidYear
	}
	if i.Amount < 0 {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(i.Source) == "" {
		return ErrEmptySource
	}
	return nil
}

func (b BudgetCategory) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyCategory
	}
	if !validMonth(b.Month) {
		return ErrInvalidMonth
	}
	if b.Allocation < 0 || b.Spent < 0 {
		return ErrNegativeAmount
	}
	switch b.Type {
	case Needs, Wants, Savings:
	default:
		return errors.New("invalid budget type")
	}
	return nil
}

func (a Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("empty asset name")
	}
	switch a.Type {
	case Liquid, NonLiquid:
	default:
		return errors.New("invalid asset type")
	}
	if a.CurrentValue < 0 || a.TargetValue < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// DefaultSettings mirrors the dashboard's built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		CurrencySymbol:   "Rp",
		DateFormat:       "DD/MM/YYYY",
		BudgetTargetPct:  80,
		SavingsTargetPct: 20,
		NotifyOverspend:  true,
		NotifyLowSavings: true,
	}
}
