package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

type categoryKind uint8

const (
	kindUnknown categoryKind = iota
	kindIncome
	kindExpense
)

// Category is Income, Expense, or Unknown carrying the raw stored text.
type Category struct {
	kind categoryKind
	raw  string
}

var (
	Income  = Category{kind: kindIncome}
	Expense = Category{kind: kindExpense}
)

// Unknown wraps a category value outside the closed set.
func Unknown(raw string) Category {
	return Category{kind: kindUnknown, raw: raw}
}

// ParseCategory maps stored text to a Category. Matching is exact; anything
// else becomes Unknown.
func ParseCategory(s string) Category {
	switch s {
	case "Income":
		return Income
	case "Expense":
		return Expense
	default:
		return Unknown(s)
	}
}

// ParseKnownCategory is ParseCategory for user input: it trims, ignores case
// and rejects values outside the closed set.
func ParseKnownCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) IsIncome() bool  { return c.kind == kindIncome }
func (c Category) IsExpense() bool { return c.kind == kindExpense }
func (c Category) IsKnown() bool   { return c.kind != kindUnknown }

func (c Category) String() string {
	switch c.kind {
	case kindIncome:
		return "Income"
	case kindExpense:
		return "Expense"
	default:
		return c.raw
	}
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*c = ParseCategory(s)
	return nil
}
