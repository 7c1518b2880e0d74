// Package analytics computes the aggregates and heuristics behind the
// dashboard: category breakdowns, savings rate, budget variance, trends
// and the recommendation feed.
package analytics

import (
	"sort"
	"time"

	"duitku/internal/core"
)

// CategoryTotal is one slice of the spending breakdown.
type CategoryTotal struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

// CategoryTotals sums expenses per category. Category names match
// case-sensitively; "Makanan" and "makanan" are distinct buckets.
func CategoryTotals(expenses []core.Expense) []CategoryTotal {
	sums := make(map[string]float64)
	var grand float64
	for _, e := range expenses {
		sums[e.Category] += e.Amount
		grand += e.Amount
	}

	out := make([]CategoryTotal, 0, len(sums))
	for cat, total := range sums {
		pct := 0.0
		if grand > 0 {
			pct = total / grand * 100
		}
		out = append(out, CategoryTotal{Category: cat, Total: total, Percentage: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TotalIncome sums all income rows.
func TotalIncome(income []core.MonthlyIncome) float64 {
	var sum float64
	for _, in := range income {
		sum += in.Amount
	}
	return sum
}

// TotalExpenses sums all expense rows.
func TotalExpenses(expenses []core.Expense) float64 {
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum
}

// SavingsRate returns savings as a percentage of income. Zero income yields
// zero, not a division error; overspending yields a negative rate.
func SavingsRate(totalIncome, totalExpenses float64) float64 {
	if totalIncome == 0 {
		return 0
	}
	return (totalIncome - totalExpenses) / totalIncome * 100
}

// BudgetVariance is the allocation vs actual position of one category.
type BudgetVariance struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Allocated   float64 `json:"allocated"`
	Spent       float64 `json:"spent"`
	Variance    float64 `json:"variance"`    // positive means overspent
	VariancePct float64 `json:"variancePct"` // variance relative to allocation
	Overspent   bool    `json:"overspent"`
	Warning     bool    `json:"warning"` // overspend beyond the warning threshold
}

// overspendWarningPct is the variance share above which an overspend is
// flagged as a warning rather than a note.
const overspendWarningPct = 15.0

// BudgetVariances recomputes each category's spent amount from the live
// expense list rather than trusting the stored Spent column, then compares
// it against the allocation. Expenses in categories with no budget row are
// ignored here; they still count in CategoryTotals.
func BudgetVariances(budgets []core.BudgetCategory, expenses []core.Expense) []BudgetVariance {
	spentByCategory := make(map[string]float64)
	for _, e := range expenses {
		spentByCategory[e.Category] += e.Amount
	}

	out := make([]BudgetVariance, 0, len(budgets))
	for _, b := range budgets {
		spent, tracked := spentByCategory[b.Name]
		if !tracked {
			spent = b.Spent
		}
		v := BudgetVariance{
			Name:      b.Name,
			Type:      string(b.Type),
			Allocated: b.Allocation,
			Spent:     spent,
			Variance:  spent - b.Allocation,
		}
		if b.Allocation > 0 {
			v.VariancePct = v.Variance / b.Allocation * 100
		}
		v.Overspent = v.Variance > 0
		v.Warning = v.Overspent && v.VariancePct > overspendWarningPct
		out = append(out, v)
	}
	return out
}

// TrendPoint is one month in the month-over-month series.
type TrendPoint struct {
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	Savings     float64 `json:"savings"`
	IncomeDelta float64 `json:"incomeDelta"` // percent vs previous month
	SpendDelta  float64 `json:"spendDelta"`  // percent vs previous month
	SpendSpike  bool    `json:"spendSpike"`  // spending rose beyond the spike threshold
}

// spendSpikeThresholdPct marks a month-over-month spending increase worth
// calling out.
const spendSpikeThresholdPct = 5.0

// TrendDeltas annotates a historical series with month-over-month changes.
// The first point has no predecessor and carries zero deltas.
func TrendDeltas(points []core.HistoricalPoint) []TrendPoint {
	out := make([]TrendPoint, 0, len(points))
	for i, p := range points {
		tp := TrendPoint{
			Month:    p.Month,
			Year:     p.Year,
			Income:   p.Income,
			Expenses: p.Expenses,
			Savings:  p.Savings,
		}
		if i > 0 {
			prev := points[i-1]
			tp.IncomeDelta = pctChange(prev.Income, p.Income)
			tp.SpendDelta = pctChange(prev.Expenses, p.Expenses)
			tp.SpendSpike = tp.SpendDelta > spendSpikeThresholdPct
		}
		out = append(out, tp)
	}
	return out
}

func pctChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

// WeekendSpendRatio returns the share of spending (0..1) that falls on
// Saturday or Sunday. Expenses with unparseable dates are excluded from
// both sides of the ratio.
func WeekendSpendRatio(expenses []core.Expense) float64 {
	var weekend, total float64
	for _, e := range expenses {
		t, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}
		total += e.Amount
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend += e.Amount
		}
	}
	if total == 0 {
		return 0
	}
	return weekend / total
}

// Summary bundles the per-month aggregates the dashboard renders.
type Summary struct {
	Month          int              `json:"month"`
	Year           int              `json:"year"`
	TotalIncome    float64          `json:"totalIncome"`
	TotalExpenses  float64          `json:"totalExpenses"`
	Savings        float64          `json:"savings"`
	SavingsRate    float64          `json:"savingsRate"`
	CategoryTotals []CategoryTotal  `json:"categoryTotals"`
	Variances      []BudgetVariance `json:"variances"`
	WeekendRatio   float64          `json:"weekendRatio"`
}

// Summarize computes the full monthly summary in one pass.
func Summarize(month, year int, income []core.MonthlyIncome, budgets []core.BudgetCategory, expenses []core.Expense) Summary {
	totalIncome := TotalIncome(income)
	totalExpenses := TotalExpenses(expenses)
	return Summary{
		Month:          month,
		Year:           year,
		TotalIncome:    totalIncome,
		TotalExpenses:  totalExpenses,
		Savings:        totalIncome - totalExpenses,
		SavingsRate:    SavingsRate(totalIncome, totalExpenses),
		CategoryTotals: CategoryTotals(expenses),
		Variances:      BudgetVariances(budgets, expenses),
		WeekendRatio:   WeekendSpendRatio(expenses),
	}
}
