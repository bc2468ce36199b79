package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is a store.Store backed by a SQLite database.
type SQLiteRepository struct {
	db      *sql.DB
	dbPath  string
	queries *Queries
}

var _ store.Store = (*SQLiteRepository)(nil)

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

	return &SQLiteRepository{
		db:      db,
		dbPath:  dbPath,
		queries: New(db),
	}, nil
}

// Initialize applies pending migrations. Running it again is a no-op.
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	if err := RunMigrations(r.dbPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.InfoContext(ctx, "SQLite schema ready", "path", r.dbPath)
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements store.Appender
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	rec := t.Record()
	id, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Date:        rec.Date,
		Amount:      core.FormatAmount(rec.Amount),
		Category:    rec.Category.String(),
		Description: rec.Description,
	})
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"date", rec.Date,
		"amount", core.FormatAmount(rec.Amount),
		"category", rec.Category.String())

	return nil
}

// ReadAll implements store.Reader. Rows whose amount is not a number are
// logged and skipped.
func (r *SQLiteRepository) ReadAll(ctx context.Context) ([]core.Record, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	records := make([]core.Record, 0, len(rows))
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			slog.WarnContext(ctx, "Skipping transaction with invalid amount",
				"id", row.ID,
				"amount", row.Amount)
			continue
		}
		records = append(records, core.Record{
			Date:        row.Date,
			Amount:      amount,
			Category:    core.ParseCategory(row.Category),
			Description: row.Description,
		})
	}
	return records, nil
}

// Count returns the number of stored transactions.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}
