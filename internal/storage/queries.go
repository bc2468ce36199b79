package storage

import (
	"context"
	"database/sql"
)

const createTransaction = `INSERT INTO transactions (date, amount, category, description)
VALUES (?, ?, ?, ?)
RETURNING id`

const listTransactions = `SELECT id, date, amount, category, description
FROM transactions
ORDER BY id`

const countTransactions = `SELECT COUNT(*) FROM transactions`

// Queries wraps the SQL statements used by the repository.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type CreateTransactionParams struct {
	Date        string
	Amount      string
	Category    string
	Description string
}

// TransactionRow is a stored row with its textual columns.
type TransactionRow struct {
	ID          int64
	Date        string
	Amount      string
	Category    string
	Description string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createTransaction, arg.Date, arg.Amount, arg.Category, arg.Description).Scan(&id)
	return id, err
}

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(&i.ID, &i.Date, &i.Amount, &i.Category, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTransactions).Scan(&n)
	return n, err
}
