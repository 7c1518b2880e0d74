package sheets

import (
	"context"
	"log/slog"

	"duitku/internal/core"
)

// Fallback supplies substitute rows when the backend returns nothing.
// The demo provider implements it with current-month sample data.
type Fallback interface {
	Reader
}

// Service wraps a Provider with the failure semantics the dashboard relies
// on: read errors are logged and replaced with empty lists, an empty row set
// is replaced with fallback data, and write failures are logged and
// swallowed. A transient network blip and a permanent misconfiguration are
// indistinguishable to the caller.
type Service struct {
	provider Provider
	fallback Fallback
	logger   *slog.Logger
}

func NewService(provider Provider, fallback Fallback, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, fallback: fallback, logger: logger}
}

func (s *Service) MonthlyIncome(ctx context.Context, month, year int) []core.MonthlyIncome {
	out, err := s.provider.MonthlyIncome(ctx, month, year)
	if err != nil {
		s.logger.ErrorContext(ctx, "Income read failed", "error", err, "month", month, "year", year)
		return []core.MonthlyIncome{}
	}
	if len(out) == 0 && s.fallback != nil {
		if fb, err := s.fallback.MonthlyIncome(ctx, month, year); err == nil && len(fb) > 0 {
			s.logger.DebugContext(ctx, "Substituting demo income rows", "month", month, "year", year)
			return fb
		}
	}
	if out == nil {
		out = []core.MonthlyIncome{}
	}
	return out
}

func (s *Service) BudgetCategories(ctx context.Context, month, year int) []core.BudgetCategory {
	out, err := s.provider.BudgetCategories(ctx, month, year)
	if err != nil {
		s.logger.ErrorContext(ctx, "Budget read failed", "error", err, "month", month, "year", year)
		return []core.BudgetCategory{}
	}
	if len(out) == 0 && s.fallback != nil {
		if fb, err := s.fallback.BudgetCategories(ctx, month, year); err == nil && len(fb) > 0 {
			return fb
		}
	}
	if out == nil {
		out = []core.BudgetCategory{}
	}
	return out
}

func (s *Service) Expenses(ctx context.Context, month, year int) []core.Expense {
	out, err := s.provider.Expenses(ctx, month, year)
	if err != nil {
		s.logger.ErrorContext(ctx, "Expense read failed", "error", err, "month", month, "year", year)
		return []core.Expense{}
	}
	if len(out) == 0 && s.fallback != nil {
		if fb, err := s.fallback.Expenses(ctx, month, year); err == nil && len(fb) > 0 {
			return fb
		}
	}
	if out == nil {
		out = []core.Expense{}
	}
	return out
}

func (s *Service) Assets(ctx context.Context) []core.Asset {
	out, err := s.provider.Assets(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Asset read failed", "error", err)
		return []core.Asset{}
	}
	if len(out) == 0 && s.fallback != nil {
		if fb, err := s.fallback.Assets(ctx); err == nil && len(fb) > 0 {
			return fb
		}
	}
	if out == nil {
		out = []core.Asset{}
	}
	return out
}

func (s *Service) BankAccounts(ctx context.Context) []core.BankAccount {
	out, err := s.provider.BankAccounts(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Account read failed", "error", err)
		return []core.BankAccount{}
	}
	if len(out) == 0 && s.fallback != nil {
		if fb, err := s.fallback.BankAccounts(ctx); err == nil && len(fb) > 0 {
			return fb
		}
	}
	if out == nil {
		out = []core.BankAccount{}
	}
	return out
}

func (s *Service) Settings(ctx context.Context) core.Settings {
	out, err := s.provider.Settings(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Settings read failed", "error", err)
		return core.DefaultSettings()
	}
	return out
}

// AppendExpense is fire-and-forget: the caller gets an id even when
// persistence failed. Validation still rejects bad records up front.
func (s *Service) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	ref, err := s.provider.AppendExpense(ctx, e)
	if err != nil {
		s.logger.ErrorContext(ctx, "Expense append failed, write dropped", "error", err, "description", e.Description, "amount", e.Amount)
		return e.ID, nil
	}
	return ref, nil
}

// AppendIncome is fire-and-forget, same contract as AppendExpense.
func (s *Service) AppendIncome(ctx context.Context, in core.MonthlyIncome) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	ref, err := s.provider.AppendIncome(ctx, in)
	if err != nil {
		s.logger.ErrorContext(ctx, "Income append failed, write dropped", "error", err, "source", in.Source, "amount", in.Amount)
		return in.ID, nil
	}
	return ref, nil
}

func (s *Service) UpdateBudgets(ctx context.Context, month, year int, categories []core.BudgetCategory) {
	if err := s.provider.UpdateBudgets(ctx, month, year, categories); err != nil {
		s.logger.ErrorContext(ctx, "Budget update failed, write dropped", "error", err, "month", month, "year", year, "count", len(categories))
	}
}

func (s *Service) UpdateAssets(ctx context.Context, assets []core.Asset) {
	if err := s.provider.UpdateAssets(ctx, assets); err != nil {
		s.logger.ErrorContext(ctx, "Asset update failed, write dropped", "error", err, "count", len(assets))
	}
}
