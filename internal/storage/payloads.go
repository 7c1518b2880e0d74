package storage

import "duitku/internal/core"

// BudgetUpdatePayload is the queued body for a KindBudgets write: the full
// replacement list for one period.
type BudgetUpdatePayload struct {
	Month      int                   `json:"month"`
	Year       int                   `json:"year"`
	Categories []core.BudgetCategory `json:"categories"`
}

// AssetUpdatePayload is the queued body for a KindAssets write.
type AssetUpdatePayload struct {
	Assets []core.Asset `json:"assets"`
}
