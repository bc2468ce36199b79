// Package query filters stored transactions by an inclusive date range.
package query

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Engine answers date-range queries over a store.Reader.
type Engine struct {
	reader store.Reader
}

func NewEngine(reader store.Reader) *Engine {
	return &Engine{reader: reader}
}

// Query parses both bounds under core.DateLayout and delegates to QueryRange.
func (e *Engine) Query(ctx context.Context, start, end string) ([]core.Transaction, error) {
	s, err := core.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	en, err := core.ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}
	return e.QueryRange(ctx, s, en)
}

// QueryRange returns the rows dated within [start, end], in storage order.
// Bounds are not swapped, so start after end yields nothing. Rows whose date
// does not parse match no range.
func (e *Engine) QueryRange(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	records, err := e.reader.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}

	out := []core.Transaction{}
	skipped := 0
	for _, rec := range records {
		t, err := rec.Transaction()
		if err != nil {
			skipped++
			continue
		}
		if t.Date.Between(start, end) {
			out = append(out, t)
		}
	}
	if skipped > 0 {
		slog.WarnContext(ctx, "Rows with unparseable dates excluded from query",
			"skipped", skipped,
			"start", start.String(),
			"end", end.String())
	}
	return out, nil
}
