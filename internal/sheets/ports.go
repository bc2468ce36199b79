package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionWriter mirrors a recorded transaction into a spreadsheet.
	TransactionWriter interface {
		// Append writes t after the last used row and returns the written range.
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}
)
