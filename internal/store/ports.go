package store

import (
	"context"

	"fintrack/internal/core"
)

// Ports for the persistence layer.
type (
	// Initializer prepares the backing storage. It must be idempotent.
	Initializer interface {
		Initialize(ctx context.Context) error
	}

	// Appender persists one transaction.
	Appender interface {
		Append(ctx context.Context, t core.Transaction) error
	}

	// Reader returns every persisted row in storage order. A missing backing
	// file is an empty table, not an error.
	Reader interface {
		ReadAll(ctx context.Context) ([]core.Record, error)
	}

	// Store is the full append-only transaction table.
	Store interface {
		Initializer
		Appender
		Reader
	}
)

// Columns is the fixed column schema of the transaction table.
var Columns = []string{"date", "amount", "category", "description"}
