package analytics

import (
	"fmt"

	"duitku/internal/core"
)

// Severity orders recommendations in the feed.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityAlert   Severity = "alert"
)

// Recommendation is one entry in the advice feed.
type Recommendation struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Category string   `json:"category,omitempty"`
}

// Heuristic thresholds. Each rule below fires independently; a month can
// trigger several at once.
const (
	lowSavingsRatePct   = 8.0
	goodSavingsRatePct  = 20.0
	weekendHeavyRatio   = 0.4
	dominantCategoryPct = 40.0
	emergencyFundMonths = 3.0
)

// Recommend runs every heuristic over the month's aggregates and the
// historical series. Rules are independent if/else checks, not a scoring
// model.
func Recommend(s Summary, trend []TrendPoint, assets []core.Asset, settings core.Settings) []Recommendation {
	var out []Recommendation

	out = append(out, savingsRules(s, settings)...)
	out = append(out, budgetRules(s)...)
	out = append(out, categoryRules(s)...)
	out = append(out, weekendRule(s)...)
	out = append(out, trendRules(trend)...)
	out = append(out, emergencyFundRule(s, assets)...)

	return out
}

func savingsRules(s Summary, settings core.Settings) []Recommendation {
	var out []Recommendation
	switch {
	case s.TotalIncome == 0:
		out = append(out, Recommendation{
			Code:     "no-income",
			Severity: SeverityWarning,
			Message:  "No income recorded this month. Add income entries to unlock savings insights.",
		})
	case s.SavingsRate < 0:
		out = append(out, Recommendation{
			Code:     "negative-savings",
			Severity: SeverityAlert,
			Message:  fmt.Sprintf("Spending exceeds income by %s this month.", FormatCurrency(-s.Savings, settings)),
		})
	case s.SavingsRate < lowSavingsRatePct:
		out = append(out, Recommendation{
			Code:     "low-savings-rate",
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Savings rate is %s, below the %s floor. Review the largest spending categories.", FormatPercentage(s.SavingsRate), FormatPercentage(lowSavingsRatePct)),
		})
	case s.SavingsRate >= goodSavingsRatePct:
		out = append(out, Recommendation{
			Code:     "healthy-savings-rate",
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("Savings rate is %s. Consider moving the surplus into investments.", FormatPercentage(s.SavingsRate)),
		})
	}
	return out
}

func budgetRules(s Summary) []Recommendation {
	var out []Recommendation
	for _, v := range s.Variances {
		if !v.Overspent {
			continue
		}
		sev := SeverityInfo
		if v.Warning {
			sev = SeverityWarning
		}
		out = append(out, Recommendation{
			Code:     "budget-overspend",
			Severity: sev,
			Category: v.Name,
			Message:  fmt.Sprintf("%s is %s over budget (%s of allocation).", v.Name, FormatPercentage(v.VariancePct), FormatPercentage(100+v.VariancePct)),
		})
	}
	return out
}

func categoryRules(s Summary) []Recommendation {
	var out []Recommendation
	for _, ct := range s.CategoryTotals {
		if ct.Percentage > dominantCategoryPct {
			out = append(out, Recommendation{
				Code:     "dominant-category",
				Severity: SeverityInfo,
				Category: ct.Category,
				Message:  fmt.Sprintf("%s accounts for %s of this month's spending.", ct.Category, FormatPercentage(ct.Percentage)),
			})
		}
	}
	return out
}

func weekendRule(s Summary) []Recommendation {
	if s.WeekendRatio <= weekendHeavyRatio {
		return nil
	}
	return []Recommendation{{
		Code:     "weekend-heavy",
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("%s of spending happens on weekends. Planning weekend activities in advance may help.", FormatPercentage(s.WeekendRatio*100)),
	}}
}

func trendRules(trend []TrendPoint) []Recommendation {
	if len(trend) == 0 {
		return nil
	}
	last := trend[len(trend)-1]
	if !last.SpendSpike {
		return nil
	}
	return []Recommendation{{
		Code:     "spending-spike",
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("Spending rose %s compared to last month.", FormatPercentage(last.SpendDelta)),
	}}
}

// emergencyFundRule compares liquid assets against a multiple of monthly
// spending. Without expense data this month the rule stays silent.
func emergencyFundRule(s Summary, assets []core.Asset) []Recommendation {
	if s.TotalExpenses == 0 {
		return nil
	}
	var liquid float64
	for _, a := range assets {
		if a.Type == core.Liquid {
			liquid += a.CurrentValue
		}
	}
	if liquid == 0 {
		return nil
	}
	months := liquid / s.TotalExpenses
	if months >= emergencyFundMonths {
		return nil
	}
	return []Recommendation{{
		Code:     "thin-emergency-fund",
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("Liquid assets cover %.1f months of spending; aim for at least %.0f.", months, emergencyFundMonths),
	}}
}
