package demo

import (
	"math"
	"time"

	"duitku/internal/core"
)

// Historical generates a synthetic multi-month dataset ending at the current
// month, used to back quarter/year analytics views when no real multi-month
// data has accumulated. The series is deterministic for a given end month so
// charts do not jump between refreshes.
func Historical(now time.Time, months int) []core.HistoricalPoint {
	if months <= 0 {
		months = 12
	}
	out := make([]core.HistoricalPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		t := now.AddDate(0, -i, 0)
		m, y := int(t.Month()), t.Year()

		// Base income with a mild seasonal wobble; expenses track income
		// with month-dependent variation so trends are non-trivial.
		phase := float64(m) / 12 * 2 * math.Pi
		income := 16000000 + 1500000*math.Sin(phase)
		expenses := 11500000 + 2000000*math.Sin(phase+1.3)
		if expenses > income {
			expenses = income * 0.95
		}

		out = append(out, core.HistoricalPoint{
			Month:    m,
			Year:     y,
			Income:   round1000(income),
			Expenses: round1000(expenses),
			Savings:  round1000(income - expenses),
		})
	}
	return out
}

func round1000(v float64) float64 {
	return math.Round(v/1000) * 1000
}
