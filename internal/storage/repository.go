// Package storage persists the durable write queue and monthly snapshots
// in SQLite. The queue is the source of truth for writes until the sync
// worker has applied them to the spreadsheet.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"duitku/internal/core"

	_ "modernc.org/sqlite"
)

// Write kinds stored in pending_writes.
const (
	KindExpense = "expense"
	KindIncome  = "income"
	KindBudgets = "budgets"
	KindAssets  = "assets"
)

// PendingWrite is one queued record waiting to be applied to the sheet.
type PendingWrite struct {
	ID        string
	Kind      string
	Payload   []byte
	CreatedAt time.Time
	SyncedAt  *time.Time
	SyncError string
	Attempts  int
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// EnqueueWrite stores a record in the durable queue.
func (r *SQLiteRepository) EnqueueWrite(ctx context.Context, id, kind string, payload []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pending_writes (id, kind, payload) VALUES (?, ?, ?)`,
		id, kind, string(payload))
	if err != nil {
		return fmt.Errorf("enqueue %s write: %w", kind, err)
	}

	slog.InfoContext(ctx, "Write queued", "id", id, "kind", kind, "payload_size", len(payload))
	return nil
}

// GetWrite loads a single queued write by id.
func (r *SQLiteRepository) GetWrite(ctx context.Context, id string) (PendingWrite, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, kind, payload, created_at, synced_at, sync_error, attempts
		 FROM pending_writes WHERE id = ?`, id)
	return scanWrite(row)
}

// GetPendingWrites returns the oldest unsynced writes, up to limit.
func (r *SQLiteRepository) GetPendingWrites(ctx context.Context, limit int) ([]PendingWrite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, payload, created_at, synced_at, sync_error, attempts
		 FROM pending_writes WHERE synced_at IS NULL
		 ORDER BY created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending writes: %w", err)
	}
	defer rows.Close()

	var out []PendingWrite
	for rows.Next() {
		w, err := scanWrite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWrite(row rowScanner) (PendingWrite, error) {
	var w PendingWrite
	var payload string
	var syncedAt sql.NullTime
	err := row.Scan(&w.ID, &w.Kind, &payload, &w.CreatedAt, &syncedAt, &w.SyncError, &w.Attempts)
	if err != nil {
		return PendingWrite{}, fmt.Errorf("scan pending write: %w", err)
	}
	w.Payload = []byte(payload)
	if syncedAt.Valid {
		w.SyncedAt = &syncedAt.Time
	}
	return w, nil
}

// MarkSynced stamps a write as applied to the sheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pending_writes SET synced_at = CURRENT_TIMESTAMP, sync_error = '' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark write synced: %w", err)
	}

	slog.InfoContext(ctx, "Write marked as synced", "id", id)
	return nil
}

// MarkSyncError records a failed attempt; the write stays in the queue.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id, message string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pending_writes SET sync_error = ?, attempts = attempts + 1 WHERE id = ?`, message, id)
	if err != nil {
		return fmt.Errorf("mark write sync error: %w", err)
	}

	slog.WarnContext(ctx, "Write marked with sync error", "id", id, "sync_error", message)
	return nil
}

// RecordSnapshot upserts the month's totals so trend views survive sheet
// resets.
func (r *SQLiteRepository) RecordSnapshot(ctx context.Context, p core.HistoricalPoint) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (month, year, income_total, expense_total, taken_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (year, month) DO UPDATE SET
		   income_total = excluded.income_total,
		   expense_total = excluded.expense_total,
		   taken_at = CURRENT_TIMESTAMP`,
		p.Month, p.Year, p.Income, p.Expenses)
	if err != nil {
		return fmt.Errorf("record snapshot %d/%d: %w", p.Month, p.Year, err)
	}
	return nil
}

// ListSnapshots returns up to months of recorded history, oldest first.
func (r *SQLiteRepository) ListSnapshots(ctx context.Context, months int) ([]core.HistoricalPoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT month, year, income_total, expense_total
		 FROM (SELECT * FROM snapshots ORDER BY year DESC, month DESC LIMIT ?)
		 ORDER BY year ASC, month ASC`, months)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []core.HistoricalPoint
	for rows.Next() {
		var p core.HistoricalPoint
		if err := rows.Scan(&p.Month, &p.Year, &p.Income, &p.Expenses); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		p.Savings = p.Income - p.Expenses
		out = append(out, p)
	}
	return out, rows.Err()
}
