package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/query"
	"fintrack/internal/store"
)

// Publisher announces recorded transactions to other processes.
type Publisher interface {
	PublishTransactionRecorded(ctx context.Context, t core.Transaction) error
}

// View is the result of a date-range query with its aggregates.
type View struct {
	Transactions []core.Transaction
	Summary      core.Summary
	Series       core.Series
}

// Empty reports whether the range matched no transaction.
func (v View) Empty() bool {
	return len(v.Transactions) == 0
}

// TransactionService orchestrates recording and viewing transactions across
// the store and the optional event publisher.
type TransactionService struct {
	store     store.Store
	engine    *query.Engine
	publisher Publisher
}

// NewTransactionService wires a service over st. publisher may be nil.
func NewTransactionService(st store.Store, publisher Publisher) *TransactionService {
	return &TransactionService{
		store:     st,
		engine:    query.NewEngine(st),
		publisher: publisher,
	}
}

// Initialize prepares the underlying store.
func (s *TransactionService) Initialize(ctx context.Context) error {
	return s.store.Initialize(ctx)
}

// Record persists t and publishes it. A failed publish is logged only, since
// the row is already stored.
func (s *TransactionService) Record(ctx context.Context, t core.Transaction) error {
	if err := s.store.Append(ctx, t); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping transaction message")
		return nil
	}
	if err := s.publisher.PublishTransactionRecorded(ctx, t); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction message",
			"date", t.Date.String(),
			"error", err)
	}
	return nil
}

// View returns the transactions dated within [start, end] with their summary
// and per-date series. Bounds use core.DateLayout.
func (s *TransactionService) View(ctx context.Context, start, end string) (View, error) {
	txs, err := s.engine.Query(ctx, start, end)
	if err != nil {
		return View{}, err
	}
	return View{
		Transactions: txs,
		Summary:      core.Summarize(txs),
		Series:       core.BuildSeries(txs),
	}, nil
}

// All returns every stored row, including rows whose date does not parse.
func (s *TransactionService) All(ctx context.Context) ([]core.Record, error) {
	return s.store.ReadAll(ctx)
}

// Close closes the publisher and the store when they hold resources.
func (s *TransactionService) Close() error {
	var errs []error

	if c, ok := s.publisher.(io.Closer); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if c, ok := s.store.(io.Closer); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close transaction service: %w", err)
	}
	return nil
}
