package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func tx(date string, amount string, c Category) Transaction {
	return Transaction{Date: MustParseDate(date), Amount: decimal.RequireFromString(amount), Category: c}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if !s.TotalIncome.IsZero() || !s.TotalExpense.IsZero() || !s.NetSavings.IsZero() {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestSummarizeIgnoresUnknownCategories(t *testing.T) {
	txs := []Transaction{
		tx("01-01-2024", "500", Income),
		tx("02-01-2024", "200", Expense),
		tx("03-01-2024", "999", Unknown("Transfer")),
		tx("04-01-2024", "0.10", Income),
		tx("05-01-2024", "0.20", Expense),
	}
	s := Summarize(txs)
	if !s.TotalIncome.Equal(decimal.RequireFromString("500.10")) {
		t.Fatalf("income: %s", s.TotalIncome)
	}
	if !s.TotalExpense.Equal(decimal.RequireFromString("200.20")) {
		t.Fatalf("expense: %s", s.TotalExpense)
	}
	if !s.NetSavings.Equal(s.TotalIncome.Sub(s.TotalExpense)) {
		t.Fatalf("net savings %s != income - expense", s.NetSavings)
	}
	if !s.NetSavings.Equal(decimal.RequireFromString("299.90")) {
		t.Fatalf("net: %s", s.NetSavings)
	}
}

func TestSummarizeNegativeNet(t *testing.T) {
	s := Summarize([]Transaction{tx("01-01-2024", "10", Income), tx("01-01-2024", "25.5", Expense)})
	if !s.NetSavings.Equal(decimal.RequireFromString("-15.5")) {
		t.Fatalf("net: %s", s.NetSavings)
	}
}

func TestBuildSeries(t *testing.T) {
	txs := []Transaction{
		tx("05-01-2024", "50", Expense),
		tx("01-01-2024", "500", Income),
		tx("02-01-2024", "200", Expense),
		tx("01-01-2024", "25", Income),
		tx("02-01-2024", "30", Expense),
		tx("03-01-2024", "1", Unknown("Other")),
	}
	s := BuildSeries(txs)
	if len(s.Income) != 1 {
		t.Fatalf("income series: %+v", s.Income)
	}
	if s.Income[0].Date.String() != "01-01-2024" || !s.Income[0].Amount.Equal(decimal.NewFromInt(525)) {
		t.Fatalf("income point: %+v", s.Income[0])
	}
	if len(s.Expense) != 2 {
		t.Fatalf("expense series: %+v", s.Expense)
	}
	if s.Expense[0].Date.String() != "02-01-2024" || !s.Expense[0].Amount.Equal(decimal.NewFromInt(230)) {
		t.Fatalf("expense[0]: %+v", s.Expense[0])
	}
	if s.Expense[1].Date.String() != "05-01-2024" || !s.Expense[1].Amount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expense[1]: %+v", s.Expense[1])
	}
	if s.Empty() {
		t.Fatalf("series should not be empty")
	}
}

func TestBuildSeriesEmpty(t *testing.T) {
	s := BuildSeries(nil)
	if !s.Empty() || len(s.Income) != 0 || len(s.Expense) != 0 {
		t.Fatalf("expected empty series, got %+v", s)
	}
}

func TestScenarioJanuary(t *testing.T) {
	txs := []Transaction{
		tx("01-01-2024", "500", Income),
		tx("02-01-2024", "200", Expense),
	}
	sum := Summarize(txs)
	if !sum.TotalIncome.Equal(decimal.NewFromInt(500)) || !sum.TotalExpense.Equal(decimal.NewFromInt(200)) || !sum.NetSavings.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	series := BuildSeries(txs)
	if len(series.Income) != 1 || series.Income[0].Date.String() != "01-01-2024" || !series.Income[0].Amount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("income series: %+v", series.Income)
	}
	if len(series.Expense) != 1 || series.Expense[0].Date.String() != "02-01-2024" || !series.Expense[0].Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expense series: %+v", series.Expense)
	}
}
