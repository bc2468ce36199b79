// Package csvfile persists the transaction table as a delimited text file.
//
// Every append rewrites the full table through a temporary file and a rename.
// Appends are serialized within the process; the store assumes it is the only
// process writing the file.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// DefaultPath is the file used when Config.Path is empty.
const DefaultPath = "finance_data.csv"

// Config locates the table and fixes its column schema.
type Config struct {
	Path    string
	Columns []string
}

// Store is a CSV-backed store.Store.
type Store struct {
	mu      sync.Mutex
	path    string
	columns []string
}

var _ store.Store = (*Store)(nil)

// ErrMissingColumn is returned when the header lacks a schema column.
var ErrMissingColumn = errors.New("missing column")

func New(cfg Config) *Store {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	cols := cfg.Columns
	if len(cols) == 0 {
		cols = store.Columns
	}
	return &Store{path: path, columns: append([]string(nil), cols...)}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Initialize creates the file with only the header when it does not exist.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	if err := s.writeAll(nil); err != nil {
		return fmt.Errorf("initialize %s: %w", s.path, err)
	}
	slog.InfoContext(ctx, "Transaction table created", "path", s.path)
	return nil
}

// Append reads the table, adds one row and writes the table back.
func (s *Store) Append(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		return err
	}
	rows = append(rows, s.encode(t.Record()))
	if err := s.writeAll(rows); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	slog.DebugContext(ctx, "Transaction appended to CSV",
		"path", s.path,
		"date", t.Date.String(),
		"rows", len(rows))
	return nil
}

// ReadAll decodes every data row. Dates are kept as stored text. A row whose
// amount is not a number is logged and skipped; it stays in the file.
func (s *Store) ReadAll(ctx context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := newReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}
	idx, err := s.columnIndex(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	records := []core.Record{}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.path, err)
		}
		rec, err := s.decode(row, idx)
		if err != nil {
			line, _ := r.FieldPos(0)
			slog.WarnContext(ctx, "Skipping row with invalid amount",
				"path", s.path,
				"line", line,
				"error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// readRows returns the raw data rows in schema order so that rewriting the
// table never alters rows it could not decode.
func (s *Store) readRows() ([][]string, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := newReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}
	idx, err := s.columnIndex(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.path, err)
		}
		out := make([]string, len(s.columns))
		for i := range s.columns {
			out[i] = safeGet(row, idx[i])
		}
		rows = append(rows, out)
	}
}

func (s *Store) writeAll(rows [][]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(s.columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// encode lays a record out in schema column order. Fields containing the
// delimiter, quotes or newlines are quoted by the csv writer.
func (s *Store) encode(r core.Record) []string {
	out := make([]string, len(s.columns))
	for i, col := range s.columns {
		switch col {
		case "date":
			out[i] = r.Date
		case "amount":
			out[i] = core.FormatAmount(r.Amount)
		case "category":
			out[i] = r.Category.String()
		case "description":
			out[i] = r.Description
		}
	}
	return out
}

// columnIndex maps each schema column to its header position.
func (s *Store) columnIndex(header []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		pos[strings.ToLower(h)] = i
	}
	idx := make([]int, len(s.columns))
	var missing []string
	for i, col := range s.columns {
		p, ok := pos[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[i] = p
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s; got header=%v", ErrMissingColumn, strings.Join(missing, ","), header)
	}
	return idx, nil
}

// decode builds a record from a row; idx is aligned with s.columns.
func (s *Store) decode(row []string, idx []int) (core.Record, error) {
	var rec core.Record
	for i, col := range s.columns {
		v := safeGet(row, idx[i])
		switch col {
		case "date":
			rec.Date = v
		case "amount":
			amount, err := decodeAmount(v)
			if err != nil {
				return core.Record{}, err
			}
			rec.Amount = amount
		case "category":
			rec.Category = core.ParseCategory(v)
		case "description":
			rec.Description = v
		}
	}
	return rec, nil
}

// decodeAmount accepts any stored decimal text; an empty cell reads as zero.
func decodeAmount(v string) (decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", core.ErrInvalidAmount, v)
	}
	return d, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr
}

func safeGet(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
