// Package sheets defines the ports the rest of the application uses to talk
// to the spreadsheet backend. Implementations live in sheets/google (real
// spreadsheet) and sheets/demo (hard-coded fallback data).
package sheets

import (
	"context"

	"duitku/internal/core"
)

type IncomeReader interface {
	MonthlyIncome(ctx context.Context, month, year int) ([]core.MonthlyIncome, error)
}

type BudgetReader interface {
	BudgetCategories(ctx context.Context, month, year int) ([]core.BudgetCategory, error)
}

type ExpenseReader interface {
	Expenses(ctx context.Context, month, year int) ([]core.Expense, error)
}

type AssetReader interface {
	Assets(ctx context.Context) ([]core.Asset, error)
}

type AccountReader interface {
	BankAccounts(ctx context.Context) ([]core.BankAccount, error)
}

type SettingsReader interface {
	Settings(ctx context.Context) (core.Settings, error)
}

type ExpenseAppender interface {
	AppendExpense(ctx context.Context, e core.Expense) (string, error)
}

type IncomeAppender interface {
	AppendIncome(ctx context.Context, in core.MonthlyIncome) (string, error)
}

type BudgetUpdater interface {
	UpdateBudgets(ctx context.Context, month, year int, categories []core.BudgetCategory) error
}

type AssetUpdater interface {
	UpdateAssets(ctx context.Context, assets []core.Asset) error
}

// Reader groups every read port the dashboard needs in one fetch cycle.
type Reader interface {
	IncomeReader
	BudgetReader
	ExpenseReader
	AssetReader
	AccountReader
	SettingsReader
}

// Writer groups the write ports behind the append/update API surface.
type Writer interface {
	ExpenseAppender
	IncomeAppender
	BudgetUpdater
	AssetUpdater
}

// Provider is a full spreadsheet backend.
type Provider interface {
	Reader
	Writer
}
