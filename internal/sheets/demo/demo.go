// Package demo provides the hard-coded sample dataset served when no
// spreadsheet credentials are configured, and the fallback rows substituted
// when the real sheet comes back empty.
package demo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"duitku/internal/core"
	ports "duitku/internal/sheets"
)

// Provider serves demo records scoped to the current calendar month: a
// request for any other month/year gets an empty list. Appended records are
// kept in memory for the life of the process only.
type Provider struct {
	mu  sync.Mutex
	now func() time.Time

	extraIncome   []core.MonthlyIncome
	extraExpenses []core.Expense
	budgets       []core.BudgetCategory
	assets        []core.Asset
}

var _ ports.Provider = (*Provider)(nil)

func New() *Provider {
	return &Provider{now: time.Now}
}

// NewWithClock is used by tests to pin the wall clock.
func NewWithClock(now func() time.Time) *Provider {
	return &Provider{now: now}
}

func (p *Provider) currentPeriod() (int, int) {
	t := p.now()
	return int(t.Month()), t.Year()
}

// current reports whether the requested period is the wall-clock month.
// month==0/year==0 mean "current".
func (p *Provider) current(month, year int) bool {
	m, y := p.currentPeriod()
	if month == 0 {
		month = m
	}
	if year == 0 {
		year = y
	}
	return month == m && year == y
}

func (p *Provider) MonthlyIncome(ctx context.Context, month, year int) ([]core.MonthlyIncome, error) {
	if !p.current(month, year) {
		return nil, nil
	}
	m, y := p.currentPeriod()
	out := []core.MonthlyIncome{
		{ID: core.RowID("income", "Gaji Bulanan", "12500000"), Source: "Gaji Bulanan", Amount: 12500000, Month: m, Year: y, Account: "BCA"},
		{ID: core.RowID("income", "Freelance", "3500000"), Source: "Freelance", Amount: 3500000, Month: m, Year: y, Account: "Jago"},
		{ID: core.RowID("income", "Dividen", "750000"), Source: "Dividen", Amount: 750000, Month: m, Year: y, Account: "Bibit"},
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, in := range p.extraIncome {
		if in.Month == m && in.Year == y {
			out = append(out, in)
		}
	}
	return out, nil
}

func (p *Provider) BudgetCategories(ctx context.Context, month, year int) ([]core.BudgetCategory, error) {
	if !p.current(month, year) {
		return nil, nil
	}
	m, y := p.currentPeriod()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.budgets != nil {
		return append([]core.BudgetCategory(nil), p.budgets...), nil
	}
	return []core.BudgetCategory{
		{ID: core.RowID("budget", "Makanan"), Name: "Makanan", Type: core.Needs, Color: "#ef4444", Allocation: 3000000, Spent: 2150000, Month: m, Year: y, Account: "BCA"},
		{ID: core.RowID("budget", "Transportasi"), Name: "Transportasi", Type: core.Needs, Color: "#f97316", Allocation: 1500000, Spent: 980000, Month: m, Year: y, Account: "BCA"},
		{ID: core.RowID("budget", "Hiburan"), Name: "Hiburan", Type: core.Wants, Color: "#8b5cf6", Allocation: 1000000, Spent: 1200000, Month: m, Year: y, Account: "Jago"},
		{ID: core.RowID("budget", "Tabungan"), Name: "Tabungan", Type: core.Savings, Color: "#22c55e", Allocation: 2500000, Spent: 2500000, Month: m, Year: y, Account: "Jago"},
	}, nil
}

func (p *Provider) Expenses(ctx context.Context, month, year int) ([]core.Expense, error) {
	if !p.current(month, year) {
		return nil, nil
	}
	m, y := p.currentPeriod()
	date := func(day int) string {
		return fmt.Sprintf("%04d-%02d-%02d", y, m, day)
	}
	out := []core.Expense{
		{ID: core.RowID("expense", date(2), "Belanja mingguan"), Date: date(2), Description: "Belanja mingguan", Amount: 450000, Category: "Makanan", Account: "BCA", Month: m, Year: y},
		{ID: core.RowID("expense", date(5), "Bensin"), Date: date(5), Description: "Bensin", Amount: 150000, Category: "Transportasi", Account: "BCA", Month: m, Year: y},
		{ID: core.RowID("expense", date(8), "Makan di luar"), Date: date(8), Description: "Makan di luar", Amount: 275000, Category: "Makanan", Account: "Jago", Month: m, Year: y},
		{ID: core.RowID("expense", date(12), "Bioskop"), Date: date(12), Description: "Bioskop", Amount: 120000, Category: "Hiburan", Account: "Jago", Month: m, Year: y},
		{ID: core.RowID("expense", date(15), "Grab ke kantor"), Date: date(15), Description: "Grab ke kantor", Amount: 85000, Category: "Transportasi", Account: "BCA", Month: m, Year: y},
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.extraExpenses {
		if e.Month == m && e.Year == y {
			out = append(out, e)
		}
	}
	return out, nil
}

func (p *Provider) Assets(ctx context.Context) ([]core.Asset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.assets != nil {
		return append([]core.Asset(nil), p.assets...), nil
	}
	last := p.now().Format(time.RFC3339)
	return []core.Asset{
		{ID: core.RowID("asset", "Kas Darurat"), Name: "Kas Darurat", Type: core.Liquid, Category: "cash", CurrentValue: 25000000, TargetValue: 45000000, LastUpdated: last},
		{ID: core.RowID("asset", "Reksadana Saham", "IDX"), Name: "Reksadana Saham", Type: core.Liquid, Category: "stocks", Symbol: "IDX", Shares: 1200, Price: 15500, CurrentValue: 18600000, TargetValue: 30000000, LastUpdated: last},
		{ID: core.RowID("asset", "Emas Antam"), Name: "Emas Antam", Type: core.NonLiquid, Category: "gold", Shares: 10, Price: 1050000, CurrentValue: 10500000, TargetValue: 15000000, LastUpdated: last},
		{ID: core.RowID("asset", "Deposito BCA"), Name: "Deposito BCA", Type: core.NonLiquid, Category: "deposit", CurrentValue: 50000000, TargetValue: 50000000, LastUpdated: last},
	}, nil
}

func (p *Provider) BankAccounts(ctx context.Context) ([]core.BankAccount, error) {
	return []core.BankAccount{
		{ID: core.RowID("account", "BCA", "checking"), Name: "BCA", Type: core.Checking, Balance: 8250000, Color: "#1e40af"},
		{ID: core.RowID("account", "Jago", "savings"), Name: "Jago", Type: core.SavingsAccount, Balance: 14700000, Color: "#f59e0b"},
		{ID: core.RowID("account", "Bibit", "investment"), Name: "Bibit", Type: core.Investment, Balance: 18600000, Color: "#16a34a"},
	}, nil
}

func (p *Provider) Settings(ctx context.Context) (core.Settings, error) {
	return core.DefaultSettings(), nil
}

func (p *Provider) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if e.ID == "" {
		e.ID = core.NewID()
	}
	p.mu.Lock()
	p.extraExpenses = append(p.extraExpenses, e)
	p.mu.Unlock()
	return e.ID, nil
}

func (p *Provider) AppendIncome(ctx context.Context, in core.MonthlyIncome) (string, error) {
	if err := in.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if in.ID == "" {
		in.ID = core.NewID()
	}
	p.mu.Lock()
	p.extraIncome = append(p.extraIncome, in)
	p.mu.Unlock()
	return in.ID, nil
}

func (p *Provider) UpdateBudgets(ctx context.Context, month, year int, categories []core.BudgetCategory) error {
	p.mu.Lock()
	p.budgets = append([]core.BudgetCategory(nil), categories...)
	p.mu.Unlock()
	return nil
}

func (p *Provider) UpdateAssets(ctx context.Context, assets []core.Asset) error {
	p.mu.Lock()
	p.assets = append([]core.Asset(nil), assets...)
	p.mu.Unlock()
	return nil
}
