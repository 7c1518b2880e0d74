// Package store keeps the in-memory working set the API serves from: the
// latest full snapshot of spreadsheet data plus a small cache for
// off-current-month period queries.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"duitku/internal/cache"
	"duitku/internal/core"
	"duitku/internal/sheets/demo"
)

// Source is the read surface the store loads from. *sheets.Service
// implements it; reads never fail, they degrade to empty lists.
type Source interface {
	MonthlyIncome(ctx context.Context, month, year int) []core.MonthlyIncome
	BudgetCategories(ctx context.Context, month, year int) []core.BudgetCategory
	Expenses(ctx context.Context, month, year int) []core.Expense
	Assets(ctx context.Context) []core.Asset
	BankAccounts(ctx context.Context) []core.BankAccount
	Settings(ctx context.Context) core.Settings
}

// HistorySource serves recorded monthly totals. *storage.SQLiteRepository
// implements it; demo mode runs without one.
type HistorySource interface {
	ListSnapshots(ctx context.Context, months int) ([]core.HistoricalPoint, error)
}

// Snapshot is one consistent view of every entity list. Lists are replaced
// wholesale on each load, never merged.
type Snapshot struct {
	Income   []core.MonthlyIncome  `json:"income"`
	Budgets  []core.BudgetCategory `json:"budgets"`
	Expenses []core.Expense        `json:"expenses"`
	Assets   []core.Asset          `json:"assets"`
	Accounts []core.BankAccount    `json:"accounts"`
	Settings core.Settings         `json:"settings"`

	Month    int       `json:"month"`
	Year     int       `json:"year"`
	LoadedAt time.Time `json:"loadedAt"`
}

type Store struct {
	source  Source
	history HistorySource
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	snap    Snapshot
	loading bool

	// generation guards against an older concurrent load finishing after a
	// newer one: the later call to Load wins regardless of response order.
	generation atomic.Int64

	periodCache *cache.LRUCache[Snapshot]
}

func New(source Source, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		source:      source,
		logger:      logger,
		now:         time.Now,
		periodCache: cache.NewLRUCache[Snapshot](24, 5*time.Minute),
	}
}

// SetHistory attaches recorded monthly snapshots as a trend data source.
func (s *Store) SetHistory(h HistorySource) {
	s.history = h
}

// Load fetches every entity list concurrently and replaces the snapshot.
// month/year of 0 mean the current calendar month.
func (s *Store) Load(ctx context.Context, month, year int) error {
	gen := s.generation.Add(1)

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	snap, err := s.fetch(ctx, month, year)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return err
	}
	if s.generation.Load() != gen {
		s.logger.DebugContext(ctx, "Dropping stale load result", "month", month, "year", year)
		return nil
	}
	s.snap = snap
	s.periodCache.Clear()
	return nil
}

func (s *Store) fetch(ctx context.Context, month, year int) (Snapshot, error) {
	if month == 0 || year == 0 {
		t := s.now()
		month, year = int(t.Month()), t.Year()
	}

	var snap Snapshot
	snap.Month, snap.Year = month, year

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Income = s.source.MonthlyIncome(ctx, month, year)
		return nil
	})
	g.Go(func() error {
		snap.Budgets = s.source.BudgetCategories(ctx, month, year)
		return nil
	})
	g.Go(func() error {
		snap.Expenses = s.source.Expenses(ctx, month, year)
		return nil
	})
	g.Go(func() error {
		snap.Assets = s.source.Assets(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Accounts = s.source.BankAccounts(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Settings = s.source.Settings(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap.LoadedAt = s.now()
	return snap, nil
}

// Snapshot returns the current view. Slices are shared; callers must not
// mutate them.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Period serves data for an arbitrary month without disturbing the main
// snapshot, memoized briefly per period.
func (s *Store) Period(ctx context.Context, month, year int) Snapshot {
	key := periodKey(month, year)
	if snap, ok := s.periodCache.Get(key); ok {
		return snap
	}
	snap, err := s.fetch(ctx, month, year)
	if err != nil {
		return Snapshot{Month: month, Year: year}
	}
	s.periodCache.Set(key, snap)
	return snap
}

func periodKey(month, year int) string {
	return fmt.Sprintf("%02d-%04d", month, year)
}

// CleanExpired drops expired period snapshots. Satisfies cache.Cleaner so
// the cache manager can sweep the store on a timer.
func (s *Store) CleanExpired() int {
	return s.periodCache.CleanExpired()
}

// ApplyExpense appends an accepted expense to the current snapshot so the
// UI reflects it before the next full reload.
func (s *Store) ApplyExpense(e core.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Month == s.snap.Month && e.Year == s.snap.Year {
		s.snap.Expenses = append(s.snap.Expenses, e)
	}
}

// ApplyIncome mirrors ApplyExpense for income records.
func (s *Store) ApplyIncome(in core.MonthlyIncome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.Month == s.snap.Month && in.Year == s.snap.Year {
		s.snap.Income = append(s.snap.Income, in)
	}
}

// ReplaceBudgets swaps the budget list wholesale.
func (s *Store) ReplaceBudgets(categories []core.BudgetCategory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Budgets = append([]core.BudgetCategory(nil), categories...)
}

// ReplaceAssets swaps the asset list wholesale.
func (s *Store) ReplaceAssets(assets []core.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Assets = append([]core.Asset(nil), assets...)
}

// Historical aggregates income and spending across every month present in
// the sheet. When fewer than two real months exist it falls back to the
// synthetic series so trend views stay populated.
func (s *Store) Historical(ctx context.Context, months int) []core.HistoricalPoint {
	if months <= 0 {
		months = 12
	}

	type bucket struct {
		income, expenses float64
	}
	buckets := make(map[[2]int]*bucket)

	for _, in := range s.source.MonthlyIncome(ctx, 0, 0) {
		k := [2]int{in.Year, in.Month}
		if buckets[k] == nil {
			buckets[k] = &bucket{}
		}
		buckets[k].income += in.Amount
	}
	for _, e := range s.source.Expenses(ctx, 0, 0) {
		k := [2]int{e.Year, e.Month}
		if buckets[k] == nil {
			buckets[k] = &bucket{}
		}
		buckets[k].expenses += e.Amount
	}

	if len(buckets) < 2 {
		if s.history != nil {
			if points, err := s.history.ListSnapshots(ctx, months); err == nil && len(points) >= 2 {
				return points
			}
		}
		return demo.Historical(s.now(), months)
	}

	keys := make([][2]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	if len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	out := make([]core.HistoricalPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, core.HistoricalPoint{
			Year:     k[0],
			Month:    k[1],
			Income:   b.income,
			Expenses: b.expenses,
			Savings:  b.income - b.expenses,
		})
	}
	return out
}

// StartAutoRefresh reloads the snapshot on a fixed interval until ctx is
// cancelled. interval <= 0 disables it.
func (s *Store) StartAutoRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.Load(ctx, 0, 0); err != nil {
					s.logger.ErrorContext(ctx, "Background refresh failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
