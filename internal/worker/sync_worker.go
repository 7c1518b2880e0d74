// Package worker applies queued writes to the spreadsheet. It consumes
// AMQP notifications for the fast path and periodically sweeps the SQLite
// queue for anything the broker dropped.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"duitku/internal/amqp"
	"duitku/internal/core"
	"duitku/internal/sheets"
	"duitku/internal/storage"
)

// Queue is the storage surface the worker needs.
type Queue interface {
	GetWrite(ctx context.Context, id string) (storage.PendingWrite, error)
	GetPendingWrites(ctx context.Context, limit int) ([]storage.PendingWrite, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id, message string) error
	RecordSnapshot(ctx context.Context, p core.HistoricalPoint) error
}

// SyncWorker drains the write queue into the spreadsheet.
type SyncWorker struct {
	queue     Queue
	sheets    sheets.Writer
	reader    sheets.Reader
	batchSize int
	now       func() time.Time
}

func NewSyncWorker(queue Queue, writer sheets.Writer, reader sheets.Reader, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{
		queue:     queue,
		sheets:    writer,
		reader:    reader,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// HandleSyncMessage processes one AMQP notification: load the write from
// the queue and apply it. Returning an error requeues the message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "kind", msg.Kind)

	write, err := w.queue.GetWrite(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get write from storage: %w", err)
	}
	if write.SyncedAt != nil {
		slog.InfoContext(ctx, "Write already synced, skipping", "id", msg.ID)
		return nil
	}

	return w.apply(ctx, write)
}

// ProcessPendingWrites sweeps the queue for writes whose notification never
// arrived. Backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingWrites(ctx context.Context) error {
	pending, err := w.queue.GetPendingWrites(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending writes: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending writes", "count", len(pending))

	for _, write := range pending {
		if err := w.apply(ctx, write); err != nil {
			slog.ErrorContext(ctx, "Failed to sync write", "id", write.ID, "kind", write.Kind, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains a larger batch once at worker startup to recover
// from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.queue.GetPendingWrites(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending writes for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending writes found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending writes on startup, processing...", "count", len(pending))

	synced, failed := 0, 0
	for _, write := range pending {
		if err := w.apply(ctx, write); err != nil {
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

// apply dispatches one write to the matching sheet operation and stamps the
// outcome in the queue.
func (w *SyncWorker) apply(ctx context.Context, write storage.PendingWrite) error {
	var applyErr error

	switch write.Kind {
	case storage.KindExpense:
		var e core.Expense
		if err := json.Unmarshal(write.Payload, &e); err != nil {
			applyErr = fmt.Errorf("unmarshal expense payload: %w", err)
			break
		}
		_, applyErr = w.sheets.AppendExpense(ctx, e)

	case storage.KindIncome:
		var in core.MonthlyIncome
		if err := json.Unmarshal(write.Payload, &in); err != nil {
			applyErr = fmt.Errorf("unmarshal income payload: %w", err)
			break
		}
		_, applyErr = w.sheets.AppendIncome(ctx, in)

	case storage.KindBudgets:
		var p storage.BudgetUpdatePayload
		if err := json.Unmarshal(write.Payload, &p); err != nil {
			applyErr = fmt.Errorf("unmarshal budget payload: %w", err)
			break
		}
		applyErr = w.sheets.UpdateBudgets(ctx, p.Month, p.Year, p.Categories)

	case storage.KindAssets:
		var p storage.AssetUpdatePayload
		if err := json.Unmarshal(write.Payload, &p); err != nil {
			applyErr = fmt.Errorf("unmarshal asset payload: %w", err)
			break
		}
		applyErr = w.sheets.UpdateAssets(ctx, p.Assets)

	default:
		applyErr = fmt.Errorf("unknown write kind %q", write.Kind)
	}

	if applyErr != nil {
		if markErr := w.queue.MarkSyncError(ctx, write.ID, applyErr.Error()); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", write.ID, "error", markErr)
		}
		return applyErr
	}

	if err := w.queue.MarkSynced(ctx, write.ID); err != nil {
		// The sheet write succeeded; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", write.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced write", "id", write.ID, "kind", write.Kind)
	return nil
}

// RecordMonthlySnapshot reads the current month's totals from the sheet and
// persists them so historical views outlive sheet edits.
func (w *SyncWorker) RecordMonthlySnapshot(ctx context.Context) error {
	if w.reader == nil {
		return nil
	}

	t := w.now()
	month, year := int(t.Month()), t.Year()

	income, err := w.reader.MonthlyIncome(ctx, month, year)
	if err != nil {
		return fmt.Errorf("read income for snapshot: %w", err)
	}
	expenses, err := w.reader.Expenses(ctx, month, year)
	if err != nil {
		return fmt.Errorf("read expenses for snapshot: %w", err)
	}

	var incomeTotal, expenseTotal float64
	for _, in := range income {
		incomeTotal += in.Amount
	}
	for _, e := range expenses {
		expenseTotal += e.Amount
	}

	point := core.HistoricalPoint{
		Month:    month,
		Year:     year,
		Income:   incomeTotal,
		Expenses: expenseTotal,
		Savings:  incomeTotal - expenseTotal,
	}
	if err := w.queue.RecordSnapshot(ctx, point); err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Recorded monthly snapshot",
		"month", month,
		"year", year,
		"income_total", incomeTotal,
		"expense_total", expenseTotal)
	return nil
}

// Run consumes AMQP messages and runs the periodic sweep until ctx ends.
func (w *SyncWorker) Run(ctx context.Context, dial func() (*amqp.Client, error), sweepInterval time.Duration) error {
	if err := w.StartupSyncCheck(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup sync check failed", "error", err)
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := w.ProcessPendingWrites(ctx); err != nil {
					slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
				}
				if err := w.RecordMonthlySnapshot(ctx); err != nil {
					slog.ErrorContext(ctx, "Snapshot failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if dial == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	return amqp.ConsumeWithReconnect(ctx, dial, func(msg *amqp.RecordSyncMessage) error {
		return w.HandleSyncMessage(ctx, msg)
	})
}
