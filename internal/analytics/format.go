package analytics

import (
	"fmt"
	"math"
	"strings"

	"duitku/internal/core"
)

// FormatCurrency renders an amount in Indonesian style with dot thousand
// separators, e.g. "Rp 1.234.567". The symbol comes from settings; amounts
// are rounded to whole units since rupiah carries no cents in practice.
func FormatCurrency(amount float64, settings core.Settings) string {
	symbol := settings.CurrencySymbol
	if symbol == "" {
		symbol = "Rp"
	}

	negative := amount < 0
	n := int64(math.Round(math.Abs(amount)))

	grouped := groupThousands(n)
	if negative {
		return fmt.Sprintf("-%s %s", symbol, grouped)
	}
	return fmt.Sprintf("%s %s", symbol, grouped)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercentage renders a percentage with at most one decimal place,
// dropping a trailing ".0".
func FormatPercentage(pct float64) string {
	s := fmt.Sprintf("%.1f", pct)
	s = strings.TrimSuffix(s, ".0")
	return s + "%"
}
