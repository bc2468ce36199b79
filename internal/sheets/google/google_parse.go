package google

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// mirrorColumns is the column order of the mirrored sheet, A to D.
var mirrorColumns = []string{"Date", "Amount", "Category", "Description"}

// rowValues lays t out in mirror column order. Values are sent as text and
// the USER_ENTERED input option lets Sheets type them.
func rowValues(t core.Transaction) []any {
	return []any{
		t.Date.String(),
		core.FormatAmount(t.Amount),
		t.Category.String(),
		t.Description,
	}
}

// nextRow returns the first row after the used part of column A. An empty
// sheet gets the header on row 1, so data starts at row 2.
func nextRow(values [][]any) int {
	if len(values) == 0 {
		return 2
	}
	return len(values) + 1
}

// rowRange returns the A1 notation of columns A:D on row.
func rowRange(sheet string, row int) string {
	return fmt.Sprintf("%s!A%d:D%d", quoteSheet(sheet), row, row)
}

// quoteSheet wraps sheet names that contain spaces or quotes as A1 notation
// requires.
func quoteSheet(sheet string) string {
	if !strings.ContainsAny(sheet, " '!") {
		return sheet
	}
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
