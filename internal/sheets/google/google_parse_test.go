package google

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestRowValues(t *testing.T) {
	tx := core.Transaction{
		Date:        core.NewDate(2024, 3, 15),
		Amount:      decimal.RequireFromString("100"),
		Category:    core.Income,
		Description: "salary, march",
	}
	got := rowValues(tx)
	want := []any{"15-03-2024", "100.00", "Income", "salary, march"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rowValues() = %v, want %v", got, want)
	}
}

func TestNextRow(t *testing.T) {
	tests := []struct {
		name   string
		values [][]any
		want   int
	}{
		{"empty sheet", nil, 2},
		{"header only", [][]any{{"Date"}}, 2},
		{"three rows", [][]any{{"Date"}, {"01-01-2024"}, {"02-01-2024"}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextRow(tt.values); got != tt.want {
				t.Errorf("nextRow() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRowRange(t *testing.T) {
	tests := []struct {
		sheet string
		row   int
		want  string
	}{
		{"Transactions", 5, "Transactions!A5:D5"},
		{"2024 Ledger", 2, "'2024 Ledger'!A2:D2"},
		{"Bob's", 3, "'Bob''s'!A3:D3"},
	}
	for _, tt := range tests {
		if got := rowRange(tt.sheet, tt.row); got != tt.want {
			t.Errorf("rowRange(%q, %d) = %q, want %q", tt.sheet, tt.row, got, tt.want)
		}
	}
}
