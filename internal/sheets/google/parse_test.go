package google

import (
	"testing"

	"duitku/internal/core"
)

func TestCellFloat(t *testing.T) {
	tests := []struct {
		name string
		cell interface{}
		want float64
	}{
		{"plain number", "12500000", 12500000},
		{"decimal point", "45.5", 45.5},
		{"decimal comma", "45,5", 45.5},
		{"float value", 150000.0, 150000},
		{"blank", "", 0},
		{"garbage", "abc", 0},
		{"whitespace padded", "  99  ", 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cellFloat([]interface{}{tt.cell}, 0)
			if got != tt.want {
				t.Errorf("cellFloat(%v) = %v, want %v", tt.cell, got, tt.want)
			}
		})
	}

	t.Run("out of range index", func(t *testing.T) {
		if got := cellFloat([]interface{}{"1"}, 5); got != 0 {
			t.Errorf("cellFloat out of range = %v, want 0", got)
		}
	})
}

func TestCellInt(t *testing.T) {
	tests := []struct {
		name string
		cell interface{}
		want int
	}{
		{"plain int", "6", 6},
		{"float formatted", "3.0", 3},
		{"blank", "", 0},
		{"garbage", "june", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellInt([]interface{}{tt.cell}, 0); got != tt.want {
				t.Errorf("cellInt(%v) = %d, want %d", tt.cell, got, tt.want)
			}
		})
	}
}

func TestIncomeFromRow(t *testing.T) {
	row := []interface{}{"Gaji Bulanan", "12500000", "6", "2025", "BCA"}
	in := incomeFromRow(row)

	if in.Source != "Gaji Bulanan" {
		t.Errorf("Source = %q", in.Source)
	}
	if in.Amount != 12500000 {
		t.Errorf("Amount = %v", in.Amount)
	}
	if in.Month != 6 || in.Year != 2025 {
		t.Errorf("period = %d/%d, want 6/2025", in.Month, in.Year)
	}
	if in.Account != "BCA" {
		t.Errorf("Account = %q", in.Account)
	}
	if in.ID == "" {
		t.Error("expected a derived id")
	}

	// Same row maps to the same id on every fetch.
	if again := incomeFromRow(row); again.ID != in.ID {
		t.Errorf("id unstable: %q vs %q", in.ID, again.ID)
	}
}

func TestExpenseFromRow_ShortRow(t *testing.T) {
	// Trailing blank cells are omitted by the API; mapping must not panic.
	e := expenseFromRow([]interface{}{"2025-06-02", "Belanja mingguan", "450000"})
	if e.Description != "Belanja mingguan" {
		t.Errorf("Description = %q", e.Description)
	}
	if e.Amount != 450000 {
		t.Errorf("Amount = %v", e.Amount)
	}
	if e.Category != "" || e.Month != 0 {
		t.Errorf("missing cells should zero out, got category=%q month=%d", e.Category, e.Month)
	}
}

func TestBudgetFromRow(t *testing.T) {
	b := budgetFromRow([]interface{}{"Makanan", "needs", "#ef4444", "3000000", "2150000", "6", "2025", "BCA"})
	if b.Name != "Makanan" || b.Type != core.Needs {
		t.Errorf("name/type = %q/%q", b.Name, b.Type)
	}
	if b.Allocation != 3000000 || b.Spent != 2150000 {
		t.Errorf("allocation/spent = %v/%v", b.Allocation, b.Spent)
	}
	if b.Month != 6 || b.Year != 2025 {
		t.Errorf("period = %d/%d", b.Month, b.Year)
	}
}

func TestAssetFromRow(t *testing.T) {
	a := assetFromRow([]interface{}{"Reksadana Saham", "liquid", "stocks", "IDX", "1200", "15500", "18600000", "30000000", "2025-06-01T00:00:00Z"})
	if a.Type != core.Liquid {
		t.Errorf("Type = %q", a.Type)
	}
	if a.Shares != 1200 || a.Price != 15500 {
		t.Errorf("shares/price = %v/%v", a.Shares, a.Price)
	}
	if a.CurrentValue != 18600000 {
		t.Errorf("CurrentValue = %v", a.CurrentValue)
	}
}

func TestSettingsFromRows(t *testing.T) {
	rows := [][]interface{}{
		{"Currency", "IDR"},
		{"SavingsTarget", "25"},
		{"NotifyOverspend", "no"},
		{"unknownkey", "whatever"},
	}
	s := settingsFromRows(rows)

	if s.CurrencySymbol != "IDR" {
		t.Errorf("CurrencySymbol = %q, want IDR", s.CurrencySymbol)
	}
	if s.SavingsTargetPct != 25 {
		t.Errorf("SavingsTargetPct = %v, want 25", s.SavingsTargetPct)
	}
	if s.NotifyOverspend {
		t.Error("NotifyOverspend should be off")
	}
	// Untouched keys keep defaults.
	if s.DateFormat != "DD/MM/YYYY" {
		t.Errorf("DateFormat = %q, want default", s.DateFormat)
	}
}

func TestSettingsFromRows_MalformedKeepsDefaults(t *testing.T) {
	rows := [][]interface{}{
		{"SavingsTarget", "lots"},
		{"Currency", ""},
	}
	s := settingsFromRows(rows)
	def := core.DefaultSettings()

	if s.SavingsTargetPct != def.SavingsTargetPct {
		t.Errorf("SavingsTargetPct = %v, want default %v", s.SavingsTargetPct, def.SavingsTargetPct)
	}
	if s.CurrencySymbol != def.CurrencySymbol {
		t.Errorf("CurrencySymbol = %q, want default %q", s.CurrencySymbol, def.CurrencySymbol)
	}
}

func TestMatchPeriod(t *testing.T) {
	tests := []struct {
		name             string
		rowM, rowY, m, y int
		want             bool
	}{
		{"exact match", 6, 2025, 6, 2025, true},
		{"any period", 6, 2025, 0, 0, true},
		{"any month fixed year", 3, 2025, 0, 2025, true},
		{"month mismatch", 5, 2025, 6, 2025, false},
		{"year mismatch", 6, 2024, 6, 2025, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchPeriod(tt.rowM, tt.rowY, tt.m, tt.y); got != tt.want {
				t.Errorf("matchPeriod(%d,%d,%d,%d) = %v, want %v", tt.rowM, tt.rowY, tt.m, tt.y, got, tt.want)
			}
		})
	}
}
