// =============================================================================
// CSV to OFX/QIF Converter - Field Accessors
// =============================================================================
//
// Accessors are pure extraction functions from a raw row to a typed field
// value. They are represented as small interfaces with concrete
// implementations (single-column lookup, debit/credit combinator, constant)
// rather than ad hoc closures, so a resolved mapping is inspectable and every
// failure carries the column it came from.
//
// =============================================================================

package mapping

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/csv2ofx/internal/types"
)

// StringAccessor extracts a string field from a raw row.
type StringAccessor interface {
	Extract(row types.RawRow) (string, error)
}

// DateAccessor extracts a canonical in-memory date from a raw row.
type DateAccessor interface {
	Extract(row types.RawRow) (time.Time, error)
}

// AmountAccessor extracts a single signed decimal amount from a raw row.
type AmountAccessor interface {
	Extract(row types.RawRow) (decimal.Decimal, error)
}

// =============================================================================
// STRING ACCESSORS
// =============================================================================

type columnAccessor struct {
	column string
}

// Column returns an accessor that reads a single named column.
func Column(name string) StringAccessor {
	return &columnAccessor{column: name}
}

func (a *columnAccessor) Extract(row types.RawRow) (string, error) {
	value, ok := row[a.column]
	if !ok {
		return "", fmt.Errorf("column %q not present in row", a.column)
	}
	return strings.TrimSpace(value), nil
}

type constantAccessor struct {
	value string
}

// Constant returns an accessor that yields a fixed value for every row.
func Constant(value string) StringAccessor {
	return &constantAccessor{value: value}
}

func (a *constantAccessor) Extract(types.RawRow) (string, error) {
	return a.value, nil
}

// =============================================================================
// DATE ACCESSOR
// =============================================================================

type dateColumnAccessor struct {
	column string
	layout string
}

// DateColumn returns an accessor that parses a named column with the given
// Go time layout.
func DateColumn(name, layout string) DateAccessor {
	return &dateColumnAccessor{column: name, layout: layout}
}

func (a *dateColumnAccessor) Extract(row types.RawRow) (time.Time, error) {
	value, ok := row[a.column]
	if !ok {
		return time.Time{}, fmt.Errorf("column %q not present in row", a.column)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("column %q is empty", a.column)
	}

	t, err := time.Parse(a.layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse date %q with layout %q: %w", value, a.layout, err)
	}
	return t, nil
}

// =============================================================================
// AMOUNT ACCESSORS
// =============================================================================

type amountColumnAccessor struct {
	column string
	negate bool
}

// AmountColumn returns an accessor that parses a single signed decimal column.
func AmountColumn(name string, negate bool) AmountAccessor {
	return &amountColumnAccessor{column: name, negate: negate}
}

func (a *amountColumnAccessor) Extract(row types.RawRow) (decimal.Decimal, error) {
	value, ok := row[a.column]
	if !ok {
		return decimal.Zero, fmt.Errorf("column %q not present in row", a.column)
	}

	amount, err := parseAmount(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %q: %w", a.column, err)
	}
	if a.negate {
		amount = amount.Neg()
	}
	return amount, nil
}

type debitCreditAccessor struct {
	debitColumn  string
	creditColumn string
	negateDebit  bool
	negate       bool
}

// DebitCredit returns an accessor that combines separate debit and credit
// columns into one signed amount. Exactly one of the two columns must be
// populated per row; both populated or both empty is a data error.
func DebitCredit(debit, credit string, negateDebit, negate bool) AmountAccessor {
	return &debitCreditAccessor{
		debitColumn:  debit,
		creditColumn: credit,
		negateDebit:  negateDebit,
		negate:       negate,
	}
}

func (a *debitCreditAccessor) Extract(row types.RawRow) (decimal.Decimal, error) {
	debit, ok := row[a.debitColumn]
	if !ok {
		return decimal.Zero, fmt.Errorf("column %q not present in row", a.debitColumn)
	}
	credit, ok := row[a.creditColumn]
	if !ok {
		return decimal.Zero, fmt.Errorf("column %q not present in row", a.creditColumn)
	}

	debit = strings.TrimSpace(debit)
	credit = strings.TrimSpace(credit)

	switch {
	case debit != "" && credit != "":
		return decimal.Zero, fmt.Errorf(
			"both %q and %q populated (%q, %q); exactly one expected",
			a.debitColumn, a.creditColumn, debit, credit)
	case debit == "" && credit == "":
		return decimal.Zero, fmt.Errorf(
			"neither %q nor %q populated", a.debitColumn, a.creditColumn)
	}

	// Concatenation of the two columns yields the single populated value.
	amount, err := parseAmount(debit + credit)
	if err != nil {
		return decimal.Zero, err
	}
	if debit != "" && a.negateDebit {
		amount = amount.Neg()
	}
	if a.negate {
		amount = amount.Neg()
	}
	return amount, nil
}

// parseAmount parses a raw amount string into an exact decimal. It tolerates
// surrounding whitespace, thousands separators, and a comma decimal mark
// (European exports such as "1 234,56").
func parseAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(value))

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount value is empty")
	}

	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			// "1,234.56": comma is a thousands separator.
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			// "1234,56": comma is the decimal mark.
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot parse amount %q: %w", value, err)
	}
	return amount, nil
}
