package query

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store/csvfile"
	"fintrack/internal/store/memory"
)

func rec(date, amount string, c core.Category) core.Record {
	return core.Record{Date: date, Amount: decimal.RequireFromString(amount), Category: c}
}

func scenarioStore() *memory.Store {
	return memory.New(
		rec("01-01-2024", "500", core.Income),
		rec("02-01-2024", "200", core.Expense),
		rec("05-02-2024", "300", core.Income),
		rec("not-a-date", "1000", core.Income),
		rec("", "1", core.Expense),
	)
}

func TestQueryScenario(t *testing.T) {
	e := NewEngine(scenarioStore())
	got, err := e.Query(context.Background(), "01-01-2024", "31-01-2024")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(got), got)
	}
	if got[0].Date.String() != "01-01-2024" || got[1].Date.String() != "02-01-2024" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestQueryBoundsAreInclusive(t *testing.T) {
	e := NewEngine(scenarioStore())
	got, err := e.Query(context.Background(), "02-01-2024", "05-02-2024")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both bound dates, got %+v", got)
	}
	single, _ := e.Query(context.Background(), "05-02-2024", "05-02-2024")
	if len(single) != 1 {
		t.Fatalf("single-day range: %+v", single)
	}
}

func TestQueryReversedRangeIsEmpty(t *testing.T) {
	e := NewEngine(scenarioStore())
	cases := [][2]string{
		{"31-01-2024", "01-01-2024"},
		{"31-12-2024", "01-01-2000"},
		{"02-01-2024", "01-01-2024"},
	}
	for _, c := range cases {
		got, err := e.Query(context.Background(), c[0], c[1])
		if err != nil {
			t.Fatalf("query %v: %v", c, err)
		}
		if len(got) != 0 {
			t.Fatalf("range %v should be empty, got %+v", c, got)
		}
	}
}

func TestQueryExcludesUnparseableDatesFromEveryRange(t *testing.T) {
	s := scenarioStore()
	e := NewEngine(s)
	got, err := e.QueryRange(context.Background(), core.NewDate(1, 1, 1), core.NewDate(9999, 12, 31))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected only the 3 dated rows, got %d", len(got))
	}
	all, _ := s.ReadAll(context.Background())
	if len(all) != 5 {
		t.Fatalf("read all must keep every row, got %d", len(all))
	}
}

func TestQueryInvalidBounds(t *testing.T) {
	e := NewEngine(scenarioStore())
	if _, err := e.Query(context.Background(), "2024-01-01", "31-01-2024"); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := e.Query(context.Background(), "01-01-2024", "nope"); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestQueryMissingFileIsEmpty(t *testing.T) {
	s := csvfile.New(csvfile.Config{Path: filepath.Join(t.TempDir(), "absent.csv")})
	got, err := NewEngine(s).Query(context.Background(), "01-01-2024", "31-12-2024")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestQueryRoundTripThroughCSV(t *testing.T) {
	ctx := context.Background()
	s := csvfile.New(csvfile.Config{Path: filepath.Join(t.TempDir(), "finance_data.csv")})
	if err := s.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	tr := core.Transaction{
		Date:        core.MustParseDate("15-03-2024"),
		Amount:      decimal.RequireFromString("100.00"),
		Category:    core.Income,
		Description: "salary",
	}
	if err := s.Append(ctx, tr); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := NewEngine(s).Query(ctx, "01-03-2024", "31-03-2024")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly one row, got %+v", got)
	}
	if !got[0].Amount.Equal(decimal.RequireFromString("100.00")) || got[0].Category != core.Income || got[0].Description != "salary" || got[0].Date.String() != "15-03-2024" {
		t.Fatalf("unexpected row: %+v", got[0])
	}
}

func TestQueryKeepsUnknownCategories(t *testing.T) {
	e := NewEngine(memory.New(rec("10-10-2024", "4", core.Unknown("Transfer"))))
	got, err := e.Query(context.Background(), "01-10-2024", "31-10-2024")
	if err != nil || len(got) != 1 || got[0].Category != core.Unknown("Transfer") {
		t.Fatalf("unexpected: %+v %v", got, err)
	}
}

type failingReader struct{}

func (failingReader) ReadAll(context.Context) ([]core.Record, error) {
	return nil, errors.New("disk on fire")
}

func TestQueryPropagatesReadErrors(t *testing.T) {
	if _, err := NewEngine(failingReader{}).Query(context.Background(), "01-01-2024", "02-01-2024"); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestQueryMatchesUnpaddedStoredDates(t *testing.T) {
	e := NewEngine(memory.New(
		rec("5-3-2024", "40", core.Expense),
		rec("15-3-2024", "60", core.Expense),
		rec("1-4-2024", "1", core.Expense),
	))
	got, err := e.Query(context.Background(), "01-03-2024", "31-03-2024")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 || got[0].Date.String() != "05-03-2024" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}
