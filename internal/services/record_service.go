// Package services orchestrates the write path: records are persisted to
// the local queue first, the spreadsheet is updated asynchronously by the
// sync worker. Without a queue (demo mode) writes go straight to the
// provider.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"duitku/internal/core"
	"duitku/internal/storage"
)

// WriteQueue is the durable queue surface; *storage.SQLiteRepository
// implements it.
type WriteQueue interface {
	EnqueueWrite(ctx context.Context, id, kind string, payload []byte) error
}

// SyncPublisher notifies the worker; *amqp.Client implements it.
type SyncPublisher interface {
	PublishRecordSync(ctx context.Context, id, kind string) error
}

// DirectWriter applies writes straight to the provider when no queue is
// configured; *sheets.Service implements it.
type DirectWriter interface {
	AppendExpense(ctx context.Context, e core.Expense) (string, error)
	AppendIncome(ctx context.Context, in core.MonthlyIncome) (string, error)
	UpdateBudgets(ctx context.Context, month, year int, categories []core.BudgetCategory)
	UpdateAssets(ctx context.Context, assets []core.Asset)
}

// RecordService accepts validated records and hands them to either the
// durable queue or the direct writer.
type RecordService struct {
	queue     WriteQueue
	publisher SyncPublisher
	direct    DirectWriter
}

func NewRecordService(queue WriteQueue, publisher SyncPublisher, direct DirectWriter) *RecordService {
	return &RecordService{queue: queue, publisher: publisher, direct: direct}
}

// AddExpense validates, assigns an id and queues the expense. The returned
// record carries the id the caller should display immediately.
func (s *RecordService) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validation failed: %w", err)
	}
	if e.ID == "" {
		e.ID = core.NewID()
	}

	if s.queue == nil {
		if _, err := s.direct.AppendExpense(ctx, e); err != nil {
			return core.Expense{}, err
		}
		return e, nil
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("marshal expense: %w", err)
	}
	if err := s.queue.EnqueueWrite(ctx, e.ID, storage.KindExpense, payload); err != nil {
		return core.Expense{}, err
	}

	s.notify(ctx, e.ID, storage.KindExpense)
	return e, nil
}

// AddIncome mirrors AddExpense for income rows.
func (s *RecordService) AddIncome(ctx context.Context, in core.MonthlyIncome) (core.MonthlyIncome, error) {
	if err := in.Validate(); err != nil {
		return core.MonthlyIncome{}, fmt.Errorf("validation failed: %w", err)
	}
	if in.ID == "" {
		in.ID = core.NewID()
	}

	if s.queue == nil {
		if _, err := s.direct.AppendIncome(ctx, in); err != nil {
			return core.MonthlyIncome{}, err
		}
		return in, nil
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return core.MonthlyIncome{}, fmt.Errorf("marshal income: %w", err)
	}
	if err := s.queue.EnqueueWrite(ctx, in.ID, storage.KindIncome, payload); err != nil {
		return core.MonthlyIncome{}, err
	}

	s.notify(ctx, in.ID, storage.KindIncome)
	return in, nil
}

// UpdateBudgets queues a wholesale replacement of the period's budget rows.
func (s *RecordService) UpdateBudgets(ctx context.Context, month, year int, categories []core.BudgetCategory) error {
	for i := range categories {
		if err := categories[i].Validate(); err != nil {
			return fmt.Errorf("validation failed for %q: %w", categories[i].Name, err)
		}
	}

	if s.queue == nil {
		s.direct.UpdateBudgets(ctx, month, year, categories)
		return nil
	}

	payload, err := json.Marshal(storage.BudgetUpdatePayload{Month: month, Year: year, Categories: categories})
	if err != nil {
		return fmt.Errorf("marshal budget update: %w", err)
	}
	id := core.NewID()
	if err := s.queue.EnqueueWrite(ctx, id, storage.KindBudgets, payload); err != nil {
		return err
	}

	s.notify(ctx, id, storage.KindBudgets)
	return nil
}

// UpdateAssets queues a wholesale replacement of the assets tab.
func (s *RecordService) UpdateAssets(ctx context.Context, assets []core.Asset) error {
	for i := range assets {
		if err := assets[i].Validate(); err != nil {
			return fmt.Errorf("validation failed for %q: %w", assets[i].Name, err)
		}
	}

	if s.queue == nil {
		s.direct.UpdateAssets(ctx, assets)
		return nil
	}

	payload, err := json.Marshal(storage.AssetUpdatePayload{Assets: assets})
	if err != nil {
		return fmt.Errorf("marshal asset update: %w", err)
	}
	id := core.NewID()
	if err := s.queue.EnqueueWrite(ctx, id, storage.KindAssets, payload); err != nil {
		return err
	}

	s.notify(ctx, id, storage.KindAssets)
	return nil
}

// notify is best effort: a missing or failing broker never fails the
// request, the periodic queue sweep picks the write up later.
func (s *RecordService) notify(ctx context.Context, id, kind string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message", "id", id, "kind", kind)
		return
	}
	if err := s.publisher.PublishRecordSync(ctx, id, kind); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "kind", kind, "error", err)
	}
}
