package google

import (
	"fmt"
	"strconv"
	"strings"

	"duitku/internal/core"
)

// Cell coercion mirrors the column contract the dashboard hard-codes: cells
// arrive untyped, malformed numbers default to zero, blanks to "".

func cellString(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

func cellFloat(row []interface{}, idx int) float64 {
	s := cellString(row, idx)
	if s == "" {
		return 0
	}
	// Sheets may hand back decimal commas depending on spreadsheet locale.
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func cellInt(row []interface{}, idx int) int {
	s := cellString(row, idx)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Numeric cells can arrive as "3.0"
		return int(cellFloat(row, idx))
	}
	return n
}

// Income tab columns: Source, Amount, Month, Year, Account.
func incomeFromRow(row []interface{}) core.MonthlyIncome {
	return core.MonthlyIncome{
		ID:      core.RowID("income", cellString(row, 0), cellString(row, 1), cellString(row, 2), cellString(row, 3), cellString(row, 4)),
		Source:  cellString(row, 0),
		Amount:  cellFloat(row, 1),
		Month:   cellInt(row, 2),
		Year:    cellInt(row, 3),
		Account: cellString(row, 4),
	}
}

// Budgeting tab columns: Name, Type, Color, Allocation, Spent, Month, Year, Account.
func budgetFromRow(row []interface{}) core.BudgetCategory {
	return core.BudgetCategory{
		ID:         core.RowID("budget", cellString(row, 0), cellString(row, 5), cellString(row, 6), cellString(row, 7)),
		Name:       cellString(row, 0),
		Type:       core.BudgetType(cellString(row, 1)),
		Color:      cellString(row, 2),
		Allocation: cellFloat(row, 3),
		Spent:      cellFloat(row, 4),
		Month:      cellInt(row, 5),
		Year:       cellInt(row, 6),
		Account:    cellString(row, 7),
	}
}

// Spending tab columns: Date, Description, Amount, Category, Account, Month, Year.
func expenseFromRow(row []interface{}) core.Expense {
	return core.Expense{
		ID:          core.RowID("expense", cellString(row, 0), cellString(row, 1), cellString(row, 2), cellString(row, 3), cellString(row, 4)),
		Date:        cellString(row, 0),
		Description: cellString(row, 1),
		Amount:      cellFloat(row, 2),
		Category:    cellString(row, 3),
		Account:     cellString(row, 4),
		Month:       cellInt(row, 5),
		Year:        cellInt(row, 6),
	}
}

// Assets tab columns: Name, Type, Category, Symbol, Shares, Price,
// CurrentValue, TargetValue, LastUpdated.
func assetFromRow(row []interface{}) core.Asset {
	return core.Asset{
		ID:           core.RowID("asset", cellString(row, 0), cellString(row, 3)),
		Name:         cellString(row, 0),
		Type:         core.AssetType(cellString(row, 1)),
		Category:     cellString(row, 2),
		Symbol:       cellString(row, 3),
		Shares:       cellFloat(row, 4),
		Price:        cellFloat(row, 5),
		CurrentValue: cellFloat(row, 6),
		TargetValue:  cellFloat(row, 7),
		LastUpdated:  cellString(row, 8),
	}
}

// Accounts tab columns: Name, Type, Balance, Color.
func accountFromRow(row []interface{}) core.BankAccount {
	return core.BankAccount{
		ID:      core.RowID("account", cellString(row, 0), cellString(row, 1)),
		Name:    cellString(row, 0),
		Type:    core.AccountType(cellString(row, 1)),
		Balance: cellFloat(row, 2),
		Color:   cellString(row, 3),
	}
}

// Settings tab is key/value rows in columns A and B.
func settingsFromRows(rows [][]interface{}) core.Settings {
	s := core.DefaultSettings()
	for _, row := range rows {
		key := strings.ToLower(cellString(row, 0))
		switch key {
		case "currency", "currencysymbol":
			if v := cellString(row, 1); v != "" {
				s.CurrencySymbol = v
			}
		case "dateformat":
			if v := cellString(row, 1); v != "" {
				s.DateFormat = v
			}
		case "budgettarget", "budgettargetpct":
			if v := cellFloat(row, 1); v > 0 {
				s.BudgetTargetPct = v
			}
		case "savingstarget", "savingstargetpct":
			if v := cellFloat(row, 1); v > 0 {
				s.SavingsTargetPct = v
			}
		case "notifyoverspend":
			s.NotifyOverspend = parseBool(cellString(row, 1), s.NotifyOverspend)
		case "notifylowsavings":
			s.NotifyLowSavings = parseBool(cellString(row, 1), s.NotifyLowSavings)
		}
	}
	return s
}

func parseBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	case "false", "no", "0":
		return false
	}
	return def
}
