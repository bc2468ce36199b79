package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/sheets"
)

// SyncWorker mirrors recorded transactions into Google Sheets.
type SyncWorker struct {
	sheets sheets.TransactionWriter
}

func NewSyncWorker(sheets sheets.TransactionWriter) *SyncWorker {
	return &SyncWorker{sheets: sheets}
}

// HandleTransactionMessage processes a single transaction message from AMQP.
// Messages that do not describe a valid transaction are logged and dropped;
// a Sheets failure is returned so the message is requeued.
func (w *SyncWorker) HandleTransactionMessage(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	slog.InfoContext(ctx, "Processing transaction message",
		"date", msg.Date,
		"amount", msg.Amount,
		"category", msg.Category)

	t, err := msg.Transaction()
	if err != nil {
		slog.WarnContext(ctx, "Dropping invalid transaction message",
			"date", msg.Date,
			"amount", msg.Amount,
			"category", msg.Category,
			"error", err)
		return nil
	}

	ref, err := w.sheets.Append(ctx, t)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Successfully synced transaction",
		"sheets_ref", ref,
		"date", msg.Date,
		"amount", msg.Amount,
		"published_at", msg.Timestamp)

	return nil
}
