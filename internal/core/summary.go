package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summary holds the totals of a transaction set.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetSavings   decimal.Decimal
}

// Point is one (date, summed amount) pair of a series.
type Point struct {
	Date   Date
	Amount decimal.Decimal
}

// Series holds the per-date sums used to chart income against expense.
type Series struct {
	Income  []Point
	Expense []Point
}

// Empty reports whether neither series has a point.
func (s Series) Empty() bool {
	return len(s.Income) == 0 && len(s.Expense) == 0
}

// Summarize totals income and expense. Unknown categories count toward
// neither; an empty input yields zeros.
func Summarize(txs []Transaction) Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch {
		case t.Category.IsIncome():
			income = income.Add(t.Amount)
		case t.Category.IsExpense():
			expense = expense.Add(t.Amount)
		}
	}
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		NetSavings:   income.Sub(expense),
	}
}

// BuildSeries groups transactions by category and date, summing amounts per
// distinct date. Each series is ordered by date; dates without entries are
// absent.
func BuildSeries(txs []Transaction) Series {
	income := map[Date]decimal.Decimal{}
	expense := map[Date]decimal.Decimal{}
	for _, t := range txs {
		var bucket map[Date]decimal.Decimal
		switch {
		case t.Category.IsIncome():
			bucket = income
		case t.Category.IsExpense():
			bucket = expense
		default:
			continue
		}
		key := NewDate(t.Date.Year(), int(t.Date.Month()), t.Date.Day())
		bucket[key] = bucket[key].Add(t.Amount)
	}
	return Series{Income: toPoints(income), Expense: toPoints(expense)}
}

func toPoints(m map[Date]decimal.Decimal) []Point {
	points := make([]Point, 0, len(m))
	for d, amt := range m {
		points = append(points, Point{Date: d, Amount: amt})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date.Time)
	})
	return points
}
