package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the textual date format of persisted rows (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// parseLayout also accepts a day or month written with one digit, as in
// hand-edited rows like "5-3-2024".
const parseLayout = "2-1-2006"

type (
	Date struct {
		time.Time
	}

	// Transaction is a recorded financial event with a parsed date.
	Transaction struct {
		Date        Date
		Amount      decimal.Decimal
		Category    Category
		Description string
	}

	// Record is a transaction as persisted: the date stays textual and may
	// not parse.
	Record struct {
		Date        string
		Amount      decimal.Decimal
		Category    Category
		Description string
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("negative amount")
	ErrUnknownCategory = errors.New("unknown category")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses s as day-month-year. Day and month may omit the leading
// zero; the year has four digits.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(parseLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String formats the date under DateLayout.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Between reports whether start <= d <= end. Reversed bounds match nothing.
func (d Date) Between(start, end Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Record returns the persisted form of the transaction.
func (t Transaction) Record() Record {
	return Record{
		Date:        t.Date.String(),
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
	}
}

// Transaction parses the record date. Records whose date does not parse
// return ErrInvalidDate and must not take part in date comparisons.
func (r Record) Transaction() (Transaction, error) {
	d, err := ParseDate(r.Date)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Date:        d,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
	}, nil
}

// Equal compares records by value; amounts compare numerically.
func (r Record) Equal(o Record) bool {
	return r.Date == o.Date &&
		r.Amount.Equal(o.Amount) &&
		r.Category == o.Category &&
		r.Description == o.Description
}
