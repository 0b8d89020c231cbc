// Package worker consumes ledger events and mirrors them to the
// spreadsheet backup.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// SheetsWriter is the backup sink as the worker sees it.
type SheetsWriter interface {
	Append(ctx context.Context, tx core.Transaction) error
	MarkDeleted(ctx context.Context, id string) error
}

type BackupWorker struct {
	sheets SheetsWriter
}

func NewBackupWorker(sheets SheetsWriter) *BackupWorker {
	return &BackupWorker{sheets: sheets}
}

// HandleEvent processes a single ledger event. Returning an error causes
// the message to be requeued for another attempt.
func (w *BackupWorker) HandleEvent(ctx context.Context, event *amqp.Event) error {
	if w.sheets == nil {
		slog.WarnContext(ctx, "No backup sink configured, dropping event",
			"kind", event.Kind, "id", event.ID)
		return nil
	}

	switch event.Kind {
	case amqp.KindCreated:
		if event.Transaction == nil {
			slog.ErrorContext(ctx, "Created event without transaction payload", "id", event.ID)
			return nil
		}
		if err := w.sheets.Append(ctx, *event.Transaction); err != nil {
			return fmt.Errorf("append to backup: %w", err)
		}
		slog.InfoContext(ctx, "Backed up transaction",
			"id", event.ID,
			"description", event.Transaction.Description,
			"amount_cents", event.Transaction.Amount.Cents)
		return nil
	case amqp.KindDeleted:
		if err := w.sheets.MarkDeleted(ctx, event.ID); err != nil {
			return fmt.Errorf("mark deleted in backup: %w", err)
		}
		slog.InfoContext(ctx, "Recorded deletion in backup", "id", event.ID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown event kind, dropping", "kind", event.Kind, "id", event.ID)
		return nil
	}
}
