// Package export renders query results as downloadable spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

const (
	SheetTransactions = "Transactions"
	SheetSummary      = "Summary"
	SheetSeries       = "Series"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

var transactionHeader = []string{"date", "amount", "category", "description"}

// WriteXLSX writes a workbook with the rows of v, its totals and its per-date
// series on three sheets.
func WriteXLSX(w io.Writer, v services.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeTransactions(f, v.Transactions); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]any{
		{"total_income", amountCell(v.Summary.TotalIncome)},
		{"total_expense", amountCell(v.Summary.TotalExpense)},
		{"net_savings", amountCell(v.Summary.NetSavings)},
	}
	for i, row := range summary {
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetSeries); err != nil {
		return fmt.Errorf("create series sheet: %w", err)
	}
	if err := writeSeries(f, v.Series); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	f.SetColWidth(SheetTransactions, "A", "A", 12)
	f.SetColWidth(SheetTransactions, "B", "B", 12)
	f.SetColWidth(SheetTransactions, "C", "C", 12)
	f.SetColWidth(SheetTransactions, "D", "D", 30)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTransactions(f *excelize.File, txs []core.Transaction) error {
	header := make([]any, len(transactionHeader))
	for i, h := range transactionHeader {
		header[i] = h
	}
	if err := setRow(f, SheetTransactions, 1, header); err != nil {
		return err
	}
	for i, t := range txs {
		row := []any{t.Date.String(), amountCell(t.Amount), t.Category.String(), t.Description}
		if err := setRow(f, SheetTransactions, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// writeSeries lays both series out on one date axis; a date present in only
// one series leaves the other cell empty.
func writeSeries(f *excelize.File, s core.Series) error {
	if err := setRow(f, SheetSeries, 1, []any{"date", "income", "expense"}); err != nil {
		return err
	}
	row := 2
	i, j := 0, 0
	for i < len(s.Income) || j < len(s.Expense) {
		var cells []any
		switch {
		case j >= len(s.Expense) || (i < len(s.Income) && s.Income[i].Date.Before(s.Expense[j].Date.Time)):
			cells = []any{s.Income[i].Date.String(), amountCell(s.Income[i].Amount), nil}
			i++
		case i >= len(s.Income) || s.Expense[j].Date.Before(s.Income[i].Date.Time):
			cells = []any{s.Expense[j].Date.String(), nil, amountCell(s.Expense[j].Amount)}
			j++
		default:
			cells = []any{s.Income[i].Date.String(), amountCell(s.Income[i].Amount), amountCell(s.Expense[j].Amount)}
			i++
			j++
		}
		if err := setRow(f, SheetSeries, row, cells); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// amountCell stores amounts as numbers so spreadsheet formulas work on them.
func amountCell(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// WriteCSV writes txs with the persisted column layout.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range txs {
		rec := t.Record()
		if err := cw.Write([]string{rec.Date, core.FormatAmount(rec.Amount), rec.Category.String(), rec.Description}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
